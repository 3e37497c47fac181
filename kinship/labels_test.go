package kinship_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zefrenchwan/lineage.git/kinship"
	"github.com/zefrenchwan/lineage.git/people"
)

func TestOrdinal(t *testing.T) {
	expected := map[int]string{
		1:   "",
		2:   "2nd",
		3:   "3rd",
		4:   "4th",
		11:  "11th",
		12:  "12th",
		13:  "13th",
		21:  "21st",
		22:  "22nd",
		23:  "23rd",
		101: "101st",
		111: "111th",
	}

	for n, value := range expected {
		assert.Equal(t, value, kinship.Ordinal(n), "ordinal of %d", n)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		genRoot  int
		genOther int
		gender   people.Gender
		full     string
		abbr     string
	}{
		{"self", 0, 0, people.GENDER_MALE, "self", "Self"},
		{"father", 1, 0, people.GENDER_MALE, "father", "P"},
		{"mother", 1, 0, people.GENDER_FEMALE, "mother", "P"},
		{"grandparent", 2, 0, people.GENDER_UNKNOWN, "grandparent", "GP"},
		{"great grandmother", 3, 0, people.GENDER_FEMALE, "great-grandmother", "GGP"},
		{"second great grandfather", 4, 0, people.GENDER_MALE, "2nd-great-grandfather", "2GGP"},
		{"daughter", 0, 1, people.GENDER_FEMALE, "daughter", "Ch"},
		{"grandson", 0, 2, people.GENDER_MALE, "grandson", "GCh"},
		{"third great grandchild", 0, 5, people.GENDER_UNKNOWN, "3rd-great-grandchild", "3GGCh"},
		{"sister", 1, 1, people.GENDER_FEMALE, "sister", "Sib"},
		{"sibling", 1, 1, people.GENDER_UNKNOWN, "sibling", "Sib"},
		{"nephew", 1, 2, people.GENDER_MALE, "nephew", "N"},
		{"grand nephew", 1, 3, people.GENDER_MALE, "grand-nephew", "GN"},
		{"great grand niece", 1, 4, people.GENDER_FEMALE, "great-grand-niece", "GGN"},
		{"aunt", 2, 1, people.GENDER_FEMALE, "aunt", "A"},
		{"grand uncle", 3, 1, people.GENDER_MALE, "grand-uncle", "GA"},
		{"cousin", 2, 2, people.GENDER_FEMALE, "cousin", "C"},
		{"second cousin", 3, 3, people.GENDER_MALE, "2nd cousin", "2C"},
		{"cousin once removed", 2, 3, people.GENDER_MALE, "cousin once removed", "C1R"},
		{"second cousin twice removed", 5, 3, people.GENDER_MALE, "2nd cousin twice removed", "2C2R"},
		{"third cousin three times removed", 4, 7, people.GENDER_MALE, "3rd cousin 3 times removed", "3C3R"},
		{"unknown", -1, 2, people.GENDER_MALE, "unknown", "?"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			relationship := kinship.Classify(test.genRoot, test.genOther, test.gender)
			assert.Equal(t, test.full, relationship.Full)
			assert.Equal(t, test.abbr, relationship.Abbr)
		})
	}
}

func TestClassifyIsSymmetric(t *testing.T) {
	parent := kinship.Classify(1, 0, people.GENDER_MALE)
	child := kinship.Classify(0, 1, people.GENDER_MALE)
	assert.Equal(t, "father", parent.Full)
	assert.Equal(t, "son", child.Full)

	uncle := kinship.Classify(2, 1, people.GENDER_MALE)
	nephew := kinship.Classify(1, 2, people.GENDER_MALE)
	assert.Equal(t, "uncle", uncle.Full)
	assert.Equal(t, "nephew", nephew.Full)

	assert.Equal(t, kinship.Classify(2, 3, people.GENDER_MALE), kinship.Classify(3, 2, people.GENDER_MALE))
}
