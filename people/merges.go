package people

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrNotMoreEnriched flags a refresh from data that is not richer than current one.
// Refresh is still applied: callers log it and go on.
var ErrNotMoreEnriched = errors.New("refresh from a not more enriched profile")

// RefreshFrom copies relations of newer into p.
// Parents are merged by key, spouses, siblings and children are replaced as a whole.
// Relation sets newer did not load are kept, so richness never decreases.
// Nested persons are shared, not merged field by field.
// It returns ErrNotMoreEnriched (wrapped) once the merge is done if newer was not richer.
func (p *Person) RefreshFrom(newer *Person) error {
	if p == nil || newer == nil {
		return errors.New("nil person")
	} else if p == newer {
		return nil
	} else if p.id != newer.id {
		return fmt.Errorf("cannot refresh profile %d from profile %d", p.id, newer.id)
	}

	var diagnostic error
	currentRichness, newerRichness := p.Richness(), newer.Richness()
	if !IsMoreEnriched(newerRichness, currentRichness) {
		diagnostic = fmt.Errorf("%w: profile %d richness %d, refresh richness %d",
			ErrNotMoreEnriched, p.id, currentRichness, newerRichness)
	}

	if newer.parents != nil {
		if p.parents == nil {
			p.parents = make(map[int]*Person, len(newer.parents))
		}

		for id, parent := range newer.parents {
			p.parents[id] = parent
		}
	}

	if father := newer.Father(); father != nil {
		p.SetFather(father)
	} else if newer.father != 0 {
		p.father = newer.father
	}

	if mother := newer.Mother(); mother != nil {
		p.SetMother(mother)
	} else if newer.mother != 0 {
		p.mother = newer.mother
	}

	if newer.spouses != nil {
		p.spouses = maps.Clone(newer.spouses)
		if p.marriages == nil {
			p.marriages = make(map[int]Marriage)
		}

		for id, marriage := range newer.marriages {
			if previous, found := p.marriages[id]; found && marriage.Date == UNKNOWN_DATE {
				// a fetch with no marriage data does not erase known one
				marriage = previous
			}

			p.marriages[id] = marriage
		}

		// spouses are replaced as a whole, so is the current one
		p.spouseOrder = slices.Clone(newer.spouseOrder)
		p.currentSpouseId = currentSpouseOf(p.spouseOrder, p.marriages)
	}

	if newer.siblings != nil {
		p.SetSiblings(newer.siblings)
	}

	if newer.children != nil {
		p.SetChildren(newer.children)
	}

	p.richnessComputed = false
	return diagnostic
}

// SetFather sets father id and puts father in the parents
func (p *Person) SetFather(father *Person) {
	if p == nil || father == nil {
		return
	}

	p.father = p.replaceParent(p.father, p.mother, father)
}

// SetMother sets mother id and puts mother in the parents
func (p *Person) SetMother(mother *Person) {
	if p == nil || mother == nil {
		return
	}

	p.mother = p.replaceParent(p.mother, p.father, mother)
}

// replaceParent removes previous parent from parents (unless it is the other parent) and inserts the new one
func (p *Person) replaceParent(previousId, otherId int, parent *Person) int {
	if p.parents == nil {
		p.parents = make(map[int]*Person)
		p.richnessComputed = false
	}

	if previousId != 0 && previousId != parent.Id() && previousId != otherId {
		delete(p.parents, previousId)
	}

	p.parents[parent.Id()] = parent
	return parent.Id()
}

// SetChildren replaces children. Nil values means not loaded
func (p *Person) SetChildren(children map[int]*Person) {
	if p == nil {
		return
	}

	p.children = maps.Clone(children)
	p.richnessComputed = false
}

// SetSiblings replaces siblings. Nil values means not loaded
func (p *Person) SetSiblings(siblings map[int]*Person) {
	if p == nil {
		return
	}

	p.siblings = maps.Clone(siblings)
	p.richnessComputed = false
}

// SetCurrentSpouse adds spouse to spouses and makes it current.
// Marriage data, if any, is kept.
func (p *Person) SetCurrentSpouse(spouse *Person) {
	if p == nil || spouse == nil {
		return
	}

	if p.spouses == nil {
		p.spouses = make(map[int]*Person)
		p.richnessComputed = false
	}

	if _, found := p.spouses[spouse.Id()]; !found {
		p.spouseOrder = append(p.spouseOrder, spouse.Id())
	}

	p.spouses[spouse.Id()] = spouse
	p.currentSpouseId = spouse.Id()
}
