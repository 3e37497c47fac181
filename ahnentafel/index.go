// Package ahnentafel numbers the ancestors of a root person.
// Root is 1, the father of position p is 2p and the mother is 2p+1.
// The same ancestor may hold many positions (pedigree collapse).
package ahnentafel

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/bits"
	"slices"

	"github.com/zefrenchwan/lineage.git/graphs"
	"github.com/zefrenchwan/lineage.git/metrics"
	"github.com/zefrenchwan/lineage.git/people"
)

const (
	// MAX_GENERATIONS is the deepest generation a uint64 position can hold
	MAX_GENERATIONS = 64
	// DEFAULT_MAX_GENERATIONS bounds walks on default indexes
	DEFAULT_MAX_GENERATIONS = 40
)

// ErrDepthTooLarge is returned for generations positions would not fit in
var ErrDepthTooLarge = errors.New("generation too deep for ancestor positions")

// Index maps positions to person ids, and person ids to their positions.
// Parents are read from the graph, not from persons' own parents,
// so that parents loaded later are used on next rebuild.
type Index struct {
	// MaxGenerations stops walks at that generation, root being generation 1
	MaxGenerations int
	// graph to find parents in
	graph *graphs.Graph
	// root of the last rebuild
	root *people.Person
	// positions maps a position to a person id
	positions map[uint64]int
	// byPerson maps a person id to all its positions
	byPerson map[int][]uint64
}

// NewIndex returns an empty index reading parents from graph
func NewIndex(graph *graphs.Graph) *Index {
	return &Index{
		MaxGenerations: DEFAULT_MAX_GENERATIONS,
		graph:          graph,
		positions:      make(map[uint64]int),
		byPerson:       make(map[int][]uint64),
	}
}

// GenerationOf returns the generation of a position, root being 1
func GenerationOf(position uint64) int {
	return bits.Len64(position)
}

// Rebuild clears the index and walks ancestors of root.
// Walk stops at parents not in the graph.
func (i *Index) Rebuild(root *people.Person) error {
	if i == nil || i.graph == nil {
		return errors.New("nil index")
	} else if root == nil {
		return errors.New("nil root")
	}

	maxGenerations := min(i.MaxGenerations, MAX_GENERATIONS)
	if maxGenerations <= 0 {
		maxGenerations = DEFAULT_MAX_GENERATIONS
	}

	i.root = root
	i.positions = make(map[uint64]int)
	i.byPerson = make(map[int][]uint64)
	i.walk(root, 1, maxGenerations, make(map[int]bool))
	return nil
}

// walk sets person at position, then its parents. path holds ids of descendants, to stop on cycles
func (i *Index) walk(person *people.Person, position uint64, maxGenerations int, path map[int]bool) {
	id := person.Id()
	i.positions[position] = id
	i.byPerson[id] = append(i.byPerson[id], position)

	if GenerationOf(position) >= maxGenerations || path[id] {
		return
	}

	path[id] = true
	if father, found := i.graph.Get(person.FatherId()); found {
		i.walk(father, 2*position, maxGenerations, path)
	}

	if mother, found := i.graph.Get(person.MotherId()); found {
		i.walk(mother, 2*position+1, maxGenerations, path)
	}

	delete(path, id)
}

// Root returns the root of last rebuild, nil before any rebuild
func (i *Index) Root() *people.Person {
	return i.root
}

// At returns the person id at a position
func (i *Index) At(position uint64) (int, bool) {
	id, found := i.positions[position]
	return id, found
}

// PositionsOf returns the sorted positions of a person, empty if not reached.
// More than one position means pedigree collapse.
func (i *Index) PositionsOf(id int) []uint64 {
	result := slices.Clone(i.byPerson[id])
	slices.Sort(result)
	return result
}

// Collapsed returns persons holding more than one position
func (i *Index) Collapsed() map[int][]uint64 {
	result := make(map[int][]uint64)
	for id := range i.byPerson {
		if len(i.byPerson[id]) > 1 {
			result[id] = i.PositionsOf(id)
		}
	}

	return result
}

// Positions returns all occupied positions, sorted
func (i *Index) Positions() []uint64 {
	return slices.Sorted(maps.Keys(i.positions))
}

// Count returns the number of occupied positions
func (i *Index) Count() int {
	return len(i.positions)
}

// Depth returns the deepest occupied generation, 0 for an empty index
func (i *Index) Depth() int {
	var result int
	for position := range i.positions {
		result = max(result, GenerationOf(position))
	}

	return result
}

// List returns a dense view up to a generation: value at a position is the person id, 0 if empty.
// Position 0 is not used.
func (i *Index) List(generations int) ([]int, error) {
	if generations < 0 || generations >= MAX_GENERATIONS {
		return nil, ErrDepthTooLarge
	}

	result := make([]int, uint64(1)<<generations)
	for position, id := range i.positions {
		if position < uint64(len(result)) {
			result[position] = id
		}
	}

	return result, nil
}

// IdsAtGeneration returns unique ids with a position in [2^(depth-1), 2^depth), by position order
func (i *Index) IdsAtGeneration(depth int) []int {
	if depth <= 0 || depth > MAX_GENERATIONS {
		return nil
	}

	seen := make(map[int]bool)
	result := make([]int, 0)
	for _, position := range i.Positions() {
		if GenerationOf(position) != depth {
			continue
		}

		if id := i.positions[position]; !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}

	return result
}

// AncestorsNeededForGeneration returns parents of generation depth-1 that are not in the graph.
// It is the next set of profiles to fetch to reach generation depth.
func (i *Index) AncestorsNeededForGeneration(depth int) []int {
	if depth < 2 {
		return nil
	}

	seen := make(map[int]bool)
	result := make([]int, 0)
	for _, id := range i.IdsAtGeneration(depth - 1) {
		person, found := i.graph.Get(id)
		if !found && i.root != nil && i.root.Id() == id {
			person, found = i.root, true
		}

		if !found {
			continue
		}

		for _, parentId := range []int{person.FatherId(), person.MotherId()} {
			if parentId == 0 || seen[parentId] || i.graph.Contains(parentId) {
				continue
			}

			seen[parentId] = true
			result = append(result, parentId)
		}
	}

	return result
}

// ExpandTo loads generation after generation until depth, then rebuilds.
// It stops when no ancestor is left to load.
func (i *Index) ExpandTo(ctx context.Context, loader people.Loader, depth int) error {
	if i == nil || i.root == nil {
		return errors.New("index should be built before expansion")
	} else if depth > MAX_GENERATIONS || depth > i.MaxGenerations {
		return fmt.Errorf("%w: %d", ErrDepthTooLarge, depth)
	} else if loader == nil {
		return errors.New("nil loader")
	}

	if err := i.Rebuild(i.root); err != nil {
		return err
	}

	for generation := 2; generation <= depth; generation++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if needed := i.AncestorsNeededForGeneration(generation); len(needed) != 0 {
			records, errLoad := loader.LoadProfiles(ctx, needed)
			if errLoad != nil {
				return fmt.Errorf("loading generation %d: %w", generation, errLoad)
			}

			if _, errAdd := i.graph.AddRecords(records); errAdd != nil {
				return fmt.Errorf("adding generation %d: %w", generation, errAdd)
			}

			if err := i.Rebuild(i.root); err != nil {
				return err
			}
		}

		if len(i.IdsAtGeneration(generation)) == 0 {
			break
		}
	}

	metrics.AncestorGenerations.Observe(float64(i.Depth()))
	return nil
}
