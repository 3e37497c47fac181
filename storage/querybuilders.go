package storage

import (
	"fmt"
)

// DEFAULT_SCHEMA is the schema of the profiles table
const DEFAULT_SCHEMA = "lineage"

// queryForProfiles returns the query to find profiles payloads by ids, ids being $1
func queryForProfiles(schema string) string {
	base := `
	select PRO.profile_id, PRO.payload::text
	from %s.profiles PRO
	where PRO.profile_id = ANY ($1)
	order by PRO.profile_id
	`

	return fmt.Sprintf(base, schema)
}

// queryForProfilesCount returns the query to count profiles
func queryForProfilesCount(schema string) string {
	return fmt.Sprintf("select count(*) from %s.profiles", schema)
}
