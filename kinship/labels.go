package kinship

import (
	"strconv"

	"github.com/zefrenchwan/lineage.git/people"
)

// Relationship is a full label and its abbreviation.
// Abbreviations do not depend on gender.
type Relationship struct {
	Full string `json:"full"`
	Abbr string `json:"abbr"`
}

// gendered holds a term for each gender
type gendered struct {
	male, female, neutral string
}

func (g gendered) of(gender people.Gender) string {
	switch gender {
	case people.GENDER_MALE:
		return g.male
	case people.GENDER_FEMALE:
		return g.female
	default:
		return g.neutral
	}
}

var (
	parentTerms  = gendered{"father", "mother", "parent"}
	childTerms   = gendered{"son", "daughter", "child"}
	siblingTerms = gendered{"brother", "sister", "sibling"}
	niblingTerms = gendered{"nephew", "niece", "niece/nephew"}
	piblingTerms = gendered{"uncle", "aunt", "aunt/uncle"}
)

// Ordinal returns 2nd, 3rd, 11th, 21st... and an empty string for 1
func Ordinal(n int) string {
	if n == 1 {
		return ""
	}

	value := strconv.Itoa(n)
	switch n % 100 {
	case 11, 12, 13:
		return value + "th"
	}

	switch n % 10 {
	case 1:
		return value + "st"
	case 2:
		return value + "nd"
	case 3:
		return value + "rd"
	default:
		return value + "th"
	}
}

// greats returns the great- prefix for count greats, and its abbreviation
func greats(count int) (string, string) {
	switch {
	case count <= 0:
		return "", ""
	case count == 1:
		return "great-", "G"
	default:
		return Ordinal(count) + "-great-", strconv.Itoa(count) + "G"
	}
}

// Classify returns the relationship of other to root.
// genRoot and genOther are their generations below the common ancestor.
// Labels use the gender of other.
// Direct lines count greats from generation 3: generation 4 is "2nd-great-grandfather".
func Classify(genRoot, genOther int, gender people.Gender) Relationship {
	switch {
	case genRoot < 0 || genOther < 0:
		return Relationship{Full: "unknown", Abbr: "?"}
	case genRoot == 0 && genOther == 0:
		return Relationship{Full: "self", Abbr: "Self"}
	case genOther == 0:
		return lineal(genRoot, parentTerms.of(gender), "P")
	case genRoot == 0:
		return lineal(genOther, childTerms.of(gender), "Ch")
	case genRoot == 1 && genOther == 1:
		return Relationship{Full: siblingTerms.of(gender), Abbr: "Sib"}
	case genRoot == 1 || genOther == 1:
		return collateral(genRoot, genOther, gender)
	default:
		return cousin(genRoot, genOther)
	}
}

// lineal labels a direct ancestor or descendant generation steps away.
// Generation 2 is grand, 3 is great-grand, and generation g >= 4 is Ordinal(g-2) great-grand:
// generation 4 is the 2nd-great-grandparent. Counting g-3 greats would name it great-grandparent again.
func lineal(generation int, term, abbr string) Relationship {
	if generation == 1 {
		return Relationship{Full: term, Abbr: abbr}
	}

	prefix, prefixAbbr := greats(generation - 2)
	return Relationship{
		Full: prefix + "grand" + term,
		Abbr: prefixAbbr + "G" + abbr,
	}
}

// collateral labels nieces, nephews, aunts and uncles
func collateral(genRoot, genOther int, gender people.Gender) Relationship {
	removal := max(genRoot, genOther) - min(genRoot, genOther)
	term, abbr := piblingTerms.of(gender), "A"
	if genRoot < genOther {
		term, abbr = niblingTerms.of(gender), "N"
	}

	if removal == 1 {
		return Relationship{Full: term, Abbr: abbr}
	}

	prefix, prefixAbbr := greats(removal - 2)
	return Relationship{
		Full: prefix + "grand-" + term,
		Abbr: prefixAbbr + "G" + abbr,
	}
}

// cousin labels cousins of any level, removed or not
func cousin(genRoot, genOther int) Relationship {
	level := min(genRoot, genOther) - 1
	removed := max(genRoot, genOther) - min(genRoot, genOther)

	full := "cousin"
	abbr := "C"
	if level > 1 {
		full = Ordinal(level) + " " + full
		abbr = strconv.Itoa(level) + abbr
	}

	switch removed {
	case 0:
	case 1:
		full = full + " once removed"
	case 2:
		full = full + " twice removed"
	default:
		full = full + " " + strconv.Itoa(removed) + " times removed"
	}

	if removed > 0 {
		abbr = abbr + strconv.Itoa(removed) + "R"
	}

	return Relationship{Full: full, Abbr: abbr}
}
