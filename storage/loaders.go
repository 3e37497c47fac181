package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/zefrenchwan/lineage.git/people"
)

// readProfilesRows reads (id, payload) rows. Invalid lines are skipped and reported
func readProfilesRows(rows pgx.Rows) ([]people.Record, error) {
	var globalErr error
	result := make([]people.Record, 0)
	for rows.Next() {
		var id int64
		var payload string
		if err := rows.Scan(&id, &payload); err != nil {
			globalErr = errors.Join(globalErr, err)
			continue
		}

		if record, err := DeserializeProfile([]byte(payload)); err != nil {
			globalErr = errors.Join(globalErr, fmt.Errorf("profile %d: %w", id, err))
		} else {
			if record.Id == 0 {
				record.Id = int(id)
			}

			result = append(result, record)
		}
	}

	globalErr = errors.Join(globalErr, rows.Err())
	return result, globalErr
}

// DeserializeProfile reads a profile payload, as sent by the profile API
func DeserializeProfile(payload []byte) (people.Record, error) {
	var record people.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return record, err
	}

	return record, nil
}
