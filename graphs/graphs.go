package graphs

import (
	"errors"
	"iter"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/zefrenchwan/lineage.git/kinship"
	"github.com/zefrenchwan/lineage.git/people"
	"go.uber.org/zap"
)

// Graph is the collection of persons known in a session, keyed by id.
// Persons reference each other, so the same profile fetched twice should be a single node.
// A graph has a single owner: concurrent writes are not supported.
type Graph struct {
	// Id is the id of the graph
	Id string
	// Name of the graph, to display
	Name string
	// persons are the nodes, key is the profile id
	persons map[int]*people.Person
	// logger reports merge inconsistencies
	logger *zap.SugaredLogger
}

// NewEmptyGraph returns a new empty graph
func NewEmptyGraph(logger *zap.SugaredLogger) *Graph {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Graph{
		persons: make(map[int]*people.Person),
		logger:  logger,
	}
}

// NewGraph builds a new empty graph with a generated id
func NewGraph(name string, logger *zap.SugaredLogger) *Graph {
	graph := NewEmptyGraph(logger)
	graph.Id = uuid.NewString()
	graph.Name = name
	return graph
}

// Get returns the person with that id, if any
func (g *Graph) Get(id int) (*people.Person, bool) {
	if g == nil {
		return nil, false
	}

	person, found := g.persons[id]
	return person, found
}

// Contains returns true if id is in the graph
func (g *Graph) Contains(id int) bool {
	_, found := g.Get(id)
	return found
}

// Add builds a fresh person from record and stores it, overwriting any previous value.
// No merge happens: use Construct to deduplicate.
func (g *Graph) Add(record people.Record) (*people.Person, error) {
	if g == nil {
		return nil, errors.New("nil graph")
	}

	person, err := people.NewPerson(record, nil)
	if err != nil {
		return nil, err
	}

	g.persons[person.Id()] = person
	return person, nil
}

// Construct implements people.Factory: it returns the stored person for that id.
// New persons are inserted, nested relations included.
// If record brings a relation set stored person did not load, it is merged into stored person.
// Sets record did not load are kept, a not dominating merge is logged.
func (g *Graph) Construct(record people.Record) (*people.Person, error) {
	if g == nil {
		return nil, errors.New("nil graph")
	} else if record.Id == 0 {
		return nil, people.ErrMissingId
	}

	candidate, errCandidate := people.NewPerson(record, g)
	if errCandidate != nil {
		return nil, errCandidate
	}

	existing, found := g.persons[record.Id]
	if !found {
		g.persons[record.Id] = candidate
		return candidate, nil
	} else if candidate.Richness()&^existing.Richness() != 0 {
		g.refresh(existing, candidate)
	}

	return existing, nil
}

// Merge refreshes the stored person with newer, or stores newer if there was none.
// Merging from a not richer person is logged, and applied anyway.
func (g *Graph) Merge(newer *people.Person) (*people.Person, error) {
	if g == nil || newer == nil {
		return nil, errors.New("nil value")
	}

	existing, found := g.persons[newer.Id()]
	if !found {
		g.persons[newer.Id()] = newer
		return newer, nil
	}

	if err := g.refresh(existing, newer); err != nil && !errors.Is(err, people.ErrNotMoreEnriched) {
		return nil, err
	}

	return existing, nil
}

// refresh merges and logs diagnostics
func (g *Graph) refresh(existing, newer *people.Person) error {
	before := existing.Richness()
	err := existing.RefreshFrom(newer)
	if errors.Is(err, people.ErrNotMoreEnriched) {
		g.logger.Warnw("inconsistent profile refresh",
			"profile", existing.Id(),
			"richness", before,
			"refresh_richness", newer.Richness(),
		)
	} else if err != nil {
		g.logger.Errorw("profile refresh failed", "profile", existing.Id(), "error", err)
	}

	return err
}

// AddRecords constructs all records in the graph, and returns matching persons
func (g *Graph) AddRecords(records []people.Record) ([]*people.Person, error) {
	if g == nil {
		return nil, errors.New("nil graph")
	}

	var globalErr error
	result := make([]*people.Person, 0, len(records))
	for _, record := range records {
		if person, err := g.Construct(record); err != nil {
			globalErr = errors.Join(globalErr, err)
		} else {
			result = append(result, person)
		}
	}

	return result, globalErr
}

// Ids returns the sorted ids of the graph
func (g *Graph) Ids() []int {
	if g == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(g.persons))
}

// ListAll returns the persons, by id order.
// Sequence may be iterated many times, it reflects the graph at iteration time.
func (g *Graph) ListAll() iter.Seq[*people.Person] {
	return func(yield func(*people.Person) bool) {
		for _, id := range g.Ids() {
			person, found := g.persons[id]
			if !found {
				continue
			} else if !yield(person) {
				return
			}
		}
	}
}

// Count returns the number of persons
func (g *Graph) Count() int {
	if g == nil {
		return 0
	}

	return len(g.persons)
}

// Reset removes all persons
func (g *Graph) Reset() {
	if g == nil {
		return
	}

	g.persons = make(map[int]*people.Person)
}

// FamilyMap returns the flat family of all persons, as relationship engine input
func (g *Graph) FamilyMap() kinship.FamilyMap {
	result := make(kinship.FamilyMap, g.Count())
	for person := range g.ListAll() {
		result[person.Id()] = MemberOf(person)
	}

	return result
}

// MemberOf projects a person to its relationship engine values
func MemberOf(person *people.Person) kinship.FamilyMember {
	return kinship.FamilyMember{
		Id:              person.Id(),
		Father:          person.FatherId(),
		Mother:          person.MotherId(),
		Gender:          string(person.Gender()),
		Name:            person.Name(),
		FirstName:       person.FirstName(),
		LastNameAtBirth: person.LastNameAtBirth(),
	}
}
