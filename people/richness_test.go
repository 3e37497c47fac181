package people_test

import (
	"testing"

	"github.com/zefrenchwan/lineage.git/people"
)

func TestRichnessDominance(t *testing.T) {
	parentsAndSpouses := people.RICHNESS_PARENTS | people.RICHNESS_SPOUSES
	if !people.Dominates(people.RICHNESS_FULL, parentsAndSpouses) {
		t.Error("full should dominate everything")
	} else if people.Dominates(people.RICHNESS_PARENTS, parentsAndSpouses) {
		t.Error("subset should not dominate")
	} else if !people.Dominates(parentsAndSpouses, parentsAndSpouses) {
		t.Error("dominance is reflexive")
	} else if people.IsMoreEnriched(parentsAndSpouses, parentsAndSpouses) {
		t.Error("same richness is not more enriched")
	} else if !people.IsMoreEnriched(people.RICHNESS_FULL, parentsAndSpouses) {
		t.Error("strict superset is more enriched")
	} else if people.IsMoreEnriched(people.RICHNESS_CHILDREN, people.RICHNESS_PARENTS) {
		t.Error("disjoint sets are not comparable")
	}
}

func TestRichnessFromFields(t *testing.T) {
	if value := people.RichnessFromFields([]string{"Id", "Parents", "Children"}); value != people.RICHNESS_PARENTS|people.RICHNESS_CHILDREN {
		t.Errorf("unexpected richness %d", value)
	} else if value := people.RichnessFromFields([]string{"*"}); value != people.RICHNESS_FULL {
		t.Error("star means all fields")
	} else if value := people.RichnessFromFields(nil); value != 0 {
		t.Error("no field means no relation")
	}
}

func TestRichnessOfPerson(t *testing.T) {
	person, err := people.NewPerson(people.Record{
		Id:       10,
		Parents:  people.Relatives{},
		Siblings: people.Relatives{},
		Children: people.Relatives{},
		Spouses:  people.Relatives{},
	}, nil)

	if err != nil {
		t.Errorf("unexpected error %s", err.Error())
	} else if person.Richness() != people.RICHNESS_FULL {
		t.Error("empty loaded sets count as loaded")
	} else if !person.IsFullyEnriched() {
		t.Fail()
	}

	partial, _ := people.NewPerson(people.Record{Id: 11, Parents: people.Relatives{}}, nil)
	if partial.Richness() != people.RICHNESS_PARENTS {
		t.Errorf("unexpected richness %d", partial.Richness())
	}
}
