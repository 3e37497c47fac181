package kinship

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zefrenchwan/lineage.git/people"
)

// NO_COMMON_ANCESTOR is the relationship of people with no path to the root
const NO_COMMON_ANCESTOR = "no direct common ancestor"

// ErrUnknownRoot is returned when the root is not in the family
var ErrUnknownRoot = errors.New("root person is not in family")

// Result is the relationship of a person to the root.
// Relationship is nil when no common ancestor was found.
type Result struct {
	PersonId     int
	Relationship *Relationship
	AncestorId   int
}

// Found returns true if a common ancestor was found
func (r Result) Found() bool {
	return r.Relationship != nil
}

// resultDTO is the wire format: relationship is either an object or NO_COMMON_ANCESTOR
type resultDTO struct {
	PersonId     int             `json:"personId"`
	Relationship json.RawMessage `json:"relationship"`
	AncestorId   int             `json:"ancestorId,omitempty"`
}

// MarshalJSON writes relationship as a string when not found
func (r Result) MarshalJSON() ([]byte, error) {
	var relationship any = NO_COMMON_ANCESTOR
	if r.Relationship != nil {
		relationship = r.Relationship
	}

	raw, err := json.Marshal(relationship)
	if err != nil {
		return nil, err
	}

	return json.Marshal(resultDTO{
		PersonId:     r.PersonId,
		Relationship: raw,
		AncestorId:   r.AncestorId,
	})
}

// UnmarshalJSON reads both relationship formats
func (r *Result) UnmarshalJSON(data []byte) error {
	var dto resultDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}

	r.PersonId = dto.PersonId
	r.AncestorId = dto.AncestorId
	r.Relationship = nil
	if len(dto.Relationship) == 0 || dto.Relationship[0] != '{' {
		return nil
	}

	var relationship Relationship
	if err := json.Unmarshal(dto.Relationship, &relationship); err != nil {
		return err
	}

	r.Relationship = &relationship
	return nil
}

// Engine computes relationships within a family.
// Ancestor maps are memoized per id and shared by all queries of the engine.
// An engine is not safe for concurrent use: build one per task.
type Engine struct {
	family    FamilyMap
	ancestors map[int]*AncestorMap
	building  map[int]bool
}

// NewEngine builds an engine for that family
func NewEngine(family FamilyMap) *Engine {
	if family == nil {
		family = FamilyMap{}
	}

	return &Engine{
		family:    family,
		ancestors: make(map[int]*AncestorMap),
		building:  make(map[int]bool),
	}
}

// AncestorMap returns the ancestors of id, id included at generation 0.
// A parent id not in the family is still an ancestor, with no known parent.
func (e *Engine) AncestorMap(id int) *AncestorMap {
	if result, found := e.ancestors[id]; found {
		return result
	} else if e.building[id] {
		// person is its own ancestor in input, stop there
		return newAncestorMap(id)
	}

	e.building[id] = true
	result := newAncestorMap(id)
	if member, found := e.family[id]; found {
		if member.Father != 0 {
			result.unionShifted(e.AncestorMap(member.Father))
		}

		if member.Mother != 0 {
			result.unionShifted(e.AncestorMap(member.Mother))
		}
	}

	delete(e.building, id)
	e.ancestors[id] = result
	return result
}

// Relate returns the relationship of other to root
func (e *Engine) Relate(rootId, otherId int) Result {
	result := Result{PersonId: otherId}
	common, found := FirstCommonAncestor(e.AncestorMap(rootId), e.AncestorMap(otherId))
	if !found {
		return result
	}

	relationship := Classify(common.GenerationA, common.GenerationB, people.ParseGender(e.family[otherId].Gender))
	result.Relationship = &relationship
	result.AncestorId = common.Id
	return result
}

// Compute relates each entry to root, in entries order.
// Root itself and duplicated ids are skipped.
func Compute(rootId int, entries FamilyEntries) ([]Result, error) {
	family := entries.FamilyMap()
	if _, found := family[rootId]; !found {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRoot, rootId)
	}

	engine := NewEngine(family)
	seen := make(map[int]bool, len(entries))
	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		if entry.Id == rootId || seen[entry.Id] {
			continue
		}

		seen[entry.Id] = true
		results = append(results, engine.Relate(rootId, entry.Id))
	}

	return results, nil
}
