package kinship

import "slices"

// AncestorMap maps an ancestor id to its generation above a person.
// The person itself is at generation 0.
// Insertion order is kept: father side before mother side, recursively.
type AncestorMap struct {
	order       []int
	generations map[int]int
}

func newAncestorMap(id int) *AncestorMap {
	return &AncestorMap{
		order:       []int{id},
		generations: map[int]int{id: 0},
	}
}

// Generation returns the generation of an ancestor, if found
func (a *AncestorMap) Generation(id int) (int, bool) {
	if a == nil {
		return 0, false
	}

	generation, found := a.generations[id]
	return generation, found
}

// Ids returns ancestor ids in insertion order
func (a *AncestorMap) Ids() []int {
	if a == nil {
		return nil
	}

	return slices.Clone(a.order)
}

// Len returns the number of ancestors, person included
func (a *AncestorMap) Len() int {
	if a == nil {
		return 0
	}

	return len(a.order)
}

// unionShifted adds other ancestors one generation higher.
// An ancestor reached twice keeps its first position and the smallest generation.
func (a *AncestorMap) unionShifted(other *AncestorMap) {
	for _, id := range other.order {
		generation := other.generations[id] + 1
		if previous, found := a.generations[id]; !found {
			a.order = append(a.order, id)
			a.generations[id] = generation
		} else if generation < previous {
			a.generations[id] = generation
		}
	}
}

// CommonAncestor is an ancestor shared by two persons, with generation from each
type CommonAncestor struct {
	Id          int
	GenerationA int
	GenerationB int
}

// FirstCommonAncestor returns the first ancestor of a, in a order, that is in b.
// It is not the nearest one by total distance: father side wins.
func FirstCommonAncestor(a, b *AncestorMap) (CommonAncestor, bool) {
	var result CommonAncestor
	if a == nil || b == nil {
		return result, false
	}

	for _, id := range a.order {
		if generation, found := b.generations[id]; found {
			result.Id = id
			result.GenerationA = a.generations[id]
			result.GenerationB = generation
			return result, true
		}
	}

	return result, false
}
