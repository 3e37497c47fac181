package kinship

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// FamilyMember is the flat value of a person the engine needs
type FamilyMember struct {
	Id              int    `json:"Id"`
	Father          int    `json:"Father,omitempty"`
	Mother          int    `json:"Mother,omitempty"`
	Gender          string `json:"Gender,omitempty"`
	Name            string `json:"Name,omitempty"`
	FirstName       string `json:"FirstName,omitempty"`
	LastNameAtBirth string `json:"LastNameAtBirth,omitempty"`
}

// FamilyMap maps an id to its member
type FamilyMap map[int]FamilyMember

// Entries returns the family as entries, sorted by id
func (f FamilyMap) Entries() FamilyEntries {
	result := make(FamilyEntries, 0, len(f))
	for _, id := range slices.Sorted(maps.Keys(f)) {
		result = append(result, FamilyEntry{Id: id, Member: f[id]})
	}

	return result
}

// FamilyEntry is an (id, member) pair, serialized as a two values array
type FamilyEntry struct {
	Id     int
	Member FamilyMember
}

// MarshalJSON writes [id, member]
func (e FamilyEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Id, e.Member})
}

// UnmarshalJSON reads [id, member], id may be a number or a string
func (e *FamilyEntry) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	} else if len(raw) != 2 {
		return fmt.Errorf("family entry should have 2 values, got %d", len(raw))
	}

	var id int
	if errInt := json.Unmarshal(raw[0], &id); errInt != nil {
		var value string
		if errString := json.Unmarshal(raw[0], &value); errString != nil {
			return fmt.Errorf("invalid family entry id: %w", errInt)
		} else if parsed, errParse := strconv.Atoi(value); errParse != nil {
			return fmt.Errorf("invalid family entry id %q", value)
		} else {
			id = parsed
		}
	}

	var member FamilyMember
	if err := json.Unmarshal(raw[1], &member); err != nil {
		return err
	}

	if member.Id == 0 {
		member.Id = id
	}

	e.Id = id
	e.Member = member
	return nil
}

// FamilyEntries keeps the order of the family as sent
type FamilyEntries []FamilyEntry

// FamilyMap returns entries as a map. Last entry wins for duplicated ids
func (f FamilyEntries) FamilyMap() FamilyMap {
	result := make(FamilyMap, len(f))
	for _, entry := range f {
		result[entry.Id] = entry.Member
	}

	return result
}
