package storage

import (
	"github.com/zefrenchwan/lineage.git/ahnentafel"
	"github.com/zefrenchwan/lineage.git/graphs"
	"github.com/zefrenchwan/lineage.git/people"
)

// PersonDTO is the flat view of a person
type PersonDTO struct {
	Id          int    `json:"id"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Gender      string `json:"gender,omitempty"`
	BirthDate   string `json:"birth_date"`
	DeathDate   string `json:"death_date"`
	FatherId    int    `json:"father,omitempty"`
	MotherId    int    `json:"mother,omitempty"`
	Richness    uint8  `json:"richness"`
	DiedYoung   bool   `json:"died_young,omitempty"`
}

// PositionDTO is a person at an ancestor position
type PositionDTO struct {
	Position   uint64 `json:"position"`
	Generation int    `json:"generation"`
	PersonId   int    `json:"person"`
}

// AncestorIndexDTO is the full ancestor index of a root
type AncestorIndexDTO struct {
	RootId      int              `json:"root"`
	Generations int              `json:"generations"`
	Positions   []PositionDTO    `json:"positions"`
	Collapsed   map[int][]uint64 `json:"collapsed,omitempty"`
	People      []PersonDTO      `json:"people"`
}

// SerializePerson returns the dto content
func SerializePerson(p *people.Person) PersonDTO {
	return PersonDTO{
		Id:          p.Id(),
		Name:        p.Name(),
		DisplayName: p.DisplayName(),
		Gender:      string(p.Gender()),
		BirthDate:   p.BirthDate(),
		DeathDate:   p.DeathDate(),
		FatherId:    p.FatherId(),
		MotherId:    p.MotherId(),
		Richness:    uint8(p.Richness()),
		DiedYoung:   p.IsDiedYoung(),
	}
}

// SerializeIndex returns positions of index, and the persons of graph they refer to
func SerializeIndex(index *ahnentafel.Index, graph *graphs.Graph) AncestorIndexDTO {
	var dto AncestorIndexDTO
	if root := index.Root(); root != nil {
		dto.RootId = root.Id()
	}

	dto.Generations = index.Depth()
	dto.Positions = make([]PositionDTO, 0, index.Count())
	seen := make(map[int]bool)
	dto.People = make([]PersonDTO, 0)
	for _, position := range index.Positions() {
		id, _ := index.At(position)
		dto.Positions = append(dto.Positions, PositionDTO{
			Position:   position,
			Generation: ahnentafel.GenerationOf(position),
			PersonId:   id,
		})

		if seen[id] {
			continue
		}

		seen[id] = true
		if person, found := graph.Get(id); found {
			dto.People = append(dto.People, SerializePerson(person))
		} else if root := index.Root(); root != nil && root.Id() == id {
			dto.People = append(dto.People, SerializePerson(root))
		}
	}

	if collapsed := index.Collapsed(); len(collapsed) != 0 {
		dto.Collapsed = collapsed
	}

	return dto
}
