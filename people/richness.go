package people

// Richness flags which relation sets a person has loaded
type Richness uint8

const (
	RICHNESS_SIBLINGS Richness = 1 << iota
	RICHNESS_PARENTS
	RICHNESS_SPOUSES
	RICHNESS_CHILDREN
	// RICHNESS_FULL is set when all relation sets are loaded, even empty ones
	RICHNESS_FULL = RICHNESS_SIBLINGS | RICHNESS_PARENTS | RICHNESS_SPOUSES | RICHNESS_CHILDREN
)

// fieldsRichness maps a requested API field to its richness bit
var fieldsRichness = map[string]Richness{
	"Siblings": RICHNESS_SIBLINGS,
	"Parents":  RICHNESS_PARENTS,
	"Spouses":  RICHNESS_SPOUSES,
	"Children": RICHNESS_CHILDREN,
}

// RichnessFromFields returns the richness a fetch with those fields should produce.
// Richness computed from received data is always included in this value.
func RichnessFromFields(fields []string) Richness {
	var result Richness
	for _, field := range fields {
		if field == "*" {
			return RICHNESS_FULL
		}

		result = result | fieldsRichness[field]
	}

	return result
}

// richnessOf computes the richness from loaded relation sets
func richnessOf(siblings, parents, spouses, children bool) Richness {
	var result Richness
	if siblings {
		result = result | RICHNESS_SIBLINGS
	}

	if parents {
		result = result | RICHNESS_PARENTS
	}

	if spouses {
		result = result | RICHNESS_SPOUSES
	}

	if children {
		result = result | RICHNESS_CHILDREN
	}

	return result
}

// Dominates returns true if a has at least every relation set b has
func Dominates(a, b Richness) bool {
	return a&b == b
}

// IsMoreEnriched returns true if candidate dominates current and brings something new
func IsMoreEnriched(candidate, current Richness) bool {
	return Dominates(candidate, current) && candidate != current
}

// Includes returns true if all flags are set
func (r Richness) Includes(flags Richness) bool {
	return Dominates(r, flags)
}
