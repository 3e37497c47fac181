package people

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

const (
	// UNKNOWN_DATE is the normalized value of a missing date
	UNKNOWN_DATE = "0000-00-00"
	// SPOUSE_STATUS_BLANK is the data status upstream sends when a profile has no more spouses
	SPOUSE_STATUS_BLANK = "blank"
	// DATA_STATUS_SPOUSE is the data status key about spouses
	DATA_STATUS_SPOUSE = "Spouse"
)

// Gender of a profile, as sent by the profile API
type Gender string

const (
	GENDER_MALE    Gender = "Male"
	GENDER_FEMALE  Gender = "Female"
	GENDER_UNKNOWN Gender = ""
)

// ParseGender maps upstream values to a known gender, unknown otherwise
func ParseGender(value string) Gender {
	switch value {
	case "Male", "male", "M", "m":
		return GENDER_MALE
	case "Female", "female", "F", "f":
		return GENDER_FEMALE
	default:
		return GENDER_UNKNOWN
	}
}

// Record is a raw profile, as decoded from the profile API.
// Nested relations are records too, marriage fields are only set on spouse records.
type Record struct {
	Id              int               `json:"Id"`
	Name            string            `json:"Name,omitempty"`
	FirstName       string            `json:"FirstName,omitempty"`
	LastNameAtBirth string            `json:"LastNameAtBirth,omitempty"`
	LastNameCurrent string            `json:"LastNameCurrent,omitempty"`
	Suffix          string            `json:"Suffix,omitempty"`
	Gender          string            `json:"Gender,omitempty"`
	BirthDate       string            `json:"BirthDate,omitempty"`
	DeathDate       string            `json:"DeathDate,omitempty"`
	BirthLocation   string            `json:"BirthLocation,omitempty"`
	DeathLocation   string            `json:"DeathLocation,omitempty"`
	Privacy         int               `json:"Privacy,omitempty"`
	Photo           string            `json:"Photo,omitempty"`
	IsLiving        int               `json:"IsLiving,omitempty"`
	DiedYoung       bool              `json:"DiedYoung,omitempty"`
	Father          int               `json:"Father,omitempty"`
	Mother          int               `json:"Mother,omitempty"`
	DataStatus      map[string]string `json:"DataStatus,omitempty"`

	Parents  Relatives `json:"Parents,omitempty"`
	Siblings Relatives `json:"Siblings,omitempty"`
	Children Relatives `json:"Children,omitempty"`
	Spouses  Relatives `json:"Spouses,omitempty"`

	MarriageDate     string `json:"marriage_date,omitempty"`
	MarriageEndDate  string `json:"marriage_end_date,omitempty"`
	MarriageLocation string `json:"marriage_location,omitempty"`
}

// flatten returns a copy with no nested relation and no marriage data
func (r Record) flatten() Record {
	result := r
	result.Parents = nil
	result.Siblings = nil
	result.Children = nil
	result.Spouses = nil
	result.MarriageDate = ""
	result.MarriageEndDate = ""
	result.MarriageLocation = ""
	if r.DataStatus != nil {
		result.DataStatus = make(map[string]string, len(r.DataStatus))
		for key, value := range r.DataStatus {
			result.DataStatus[key] = value
		}
	}

	return result
}

// Relatives is a set of nested profiles, in source order.
// Nil means the relation set was not loaded, empty means loaded with no value.
type Relatives []Record

// UnmarshalJSON accepts both an object keyed by id and an array.
// Upstream sends [] for a loaded but empty set.
func (r *Relatives) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		values := make([]Record, 0)
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return err
		}

		*r = values
		return nil
	case '{':
		return r.unmarshalObject(trimmed)
	default:
		return errors.New("relatives should be an object or an array")
	}
}

// unmarshalObject reads key by key to keep source order
func (r *Relatives) unmarshalObject(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if _, err := decoder.Token(); err != nil {
		return err
	}

	result := make(Relatives, 0)
	for decoder.More() {
		var key string
		if token, err := decoder.Token(); err != nil {
			return err
		} else if value, ok := token.(string); !ok {
			return fmt.Errorf("unexpected relatives key %v", token)
		} else {
			key = value
		}

		var value Record
		if err := decoder.Decode(&value); err != nil {
			return err
		}

		if value.Id == 0 {
			if id, errId := strconv.Atoi(key); errId == nil {
				value.Id = id
			}
		}

		result = append(result, value)
	}

	*r = result
	return nil
}

// Marriage is the marriage data of a spouse, kept on the profile that fetched it
type Marriage struct {
	Date     string `json:"marriage_date"`
	EndDate  string `json:"marriage_end_date"`
	Location string `json:"marriage_location"`
}

// normalizeDate replaces a missing date by UNKNOWN_DATE
func normalizeDate(date string) string {
	if len(date) == 0 {
		return UNKNOWN_DATE
	}

	return date
}

// YearOf returns the year of a YYYY-MM-DD date, 0 when unknown
func YearOf(date string) int {
	if len(date) < 4 {
		return 0
	}

	year, err := strconv.Atoi(date[0:4])
	if err != nil || year < 0 {
		return 0
	}

	return year
}
