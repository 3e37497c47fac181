package people

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// ErrMissingId is returned when a record has no id
var ErrMissingId = errors.New("profile has no id")

// Person wraps a profile and its loaded relations.
// Relations point to persons built by a factory: a cache aware factory makes them shared nodes.
type Person struct {
	// id of the profile, never 0
	id int
	// attributes are the flat profile values, no nested relation
	attributes Record
	// father and mother ids, 0 for unknown
	father, mother int
	// relation sets, nil when not loaded
	parents  map[int]*Person
	siblings map[int]*Person
	children map[int]*Person
	spouses  map[int]*Person
	// marriages per spouse id. Only known when the spouse was fetched through this person
	marriages map[int]Marriage
	// spouseOrder is the source order of spouses, for current spouse ties
	spouseOrder     []int
	currentSpouseId int
	// memoized values
	diedYoungComputed bool
	diedYoung         bool
	richnessComputed  bool
	richness          Richness
}

// NewPerson builds a person and its nested relations.
// Nested records are built with factory, or as fresh instances if factory is nil.
func NewPerson(record Record, factory Factory) (*Person, error) {
	if record.Id == 0 {
		return nil, ErrMissingId
	}

	if factory == nil {
		factory = FreshFactory()
	}

	result := &Person{
		id:         record.Id,
		attributes: record.flatten(),
		father:     record.Father,
		mother:     record.Mother,
		marriages:  make(map[int]Marriage),
	}

	var globalErr error
	var errRelatives error
	result.parents, errRelatives = buildRelatives(record.Parents, factory)
	globalErr = errors.Join(globalErr, errRelatives)
	result.siblings, errRelatives = buildRelatives(record.Siblings, factory)
	globalErr = errors.Join(globalErr, errRelatives)
	result.children, errRelatives = buildRelatives(record.Children, factory)
	globalErr = errors.Join(globalErr, errRelatives)
	result.spouses, errRelatives = buildRelatives(record.Spouses, factory)
	globalErr = errors.Join(globalErr, errRelatives)

	if globalErr != nil {
		return nil, fmt.Errorf("invalid relatives for profile %d: %w", record.Id, globalErr)
	}

	result.marriages, result.spouseOrder = extractMarriages(record.Spouses)
	result.currentSpouseId = currentSpouseOf(result.spouseOrder, result.marriages)
	return result, nil
}

// buildRelatives constructs each record with the factory, nil for not loaded
func buildRelatives(values Relatives, factory Factory) (map[int]*Person, error) {
	if values == nil {
		return nil, nil
	}

	var globalErr error
	result := make(map[int]*Person, len(values))
	for _, value := range values {
		if relative, err := factory.Construct(value); err != nil {
			globalErr = errors.Join(globalErr, err)
		} else if relative != nil {
			result[relative.Id()] = relative
		}
	}

	return result, globalErr
}

// extractMarriages reads marriage data from spouse records, and spouse ids in source order
func extractMarriages(spouses Relatives) (map[int]Marriage, []int) {
	marriages := make(map[int]Marriage, len(spouses))
	order := make([]int, 0, len(spouses))
	for _, spouse := range spouses {
		marriages[spouse.Id] = Marriage{
			Date:     normalizeDate(spouse.MarriageDate),
			EndDate:  normalizeDate(spouse.MarriageEndDate),
			Location: spouse.MarriageLocation,
		}

		order = append(order, spouse.Id)
	}

	return marriages, order
}

// currentSpouseOf returns the earliest married spouse of order.
// Spouses with no known date come last, ties keep order.
func currentSpouseOf(order []int, marriages map[int]Marriage) int {
	currentId, currentYear := 0, 0
	for _, id := range order {
		year := YearOf(marriages[id].Date)
		if currentId == 0 {
			currentId, currentYear = id, year
		} else if year != 0 && (currentYear == 0 || year < currentYear) {
			currentId, currentYear = id, year
		}
	}

	return currentId
}

// Id returns the id of the person
func (p *Person) Id() int {
	if p == nil {
		return 0
	}

	return p.id
}

// Record returns the flat profile values (no nested relation)
func (p *Person) Record() Record {
	if p == nil {
		return Record{}
	}

	result := p.attributes.flatten()
	result.Father = p.father
	result.Mother = p.mother
	return result
}

// Name returns the profile name, as the API key
func (p *Person) Name() string {
	return p.attributes.Name
}

// FirstName returns the first name
func (p *Person) FirstName() string {
	return p.attributes.FirstName
}

// LastNameAtBirth returns the birth surname
func (p *Person) LastNameAtBirth() string {
	return p.attributes.LastNameAtBirth
}

// LastNameCurrent returns the current surname
func (p *Person) LastNameCurrent() string {
	return p.attributes.LastNameCurrent
}

// Suffix returns the name suffix
func (p *Person) Suffix() string {
	return p.attributes.Suffix
}

// DisplayName returns first name and birth surname, or the profile name
func (p *Person) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.attributes.FirstName, p.attributes.LastNameAtBirth, p.attributes.Suffix} {
		if len(part) != 0 {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		return p.attributes.Name
	}

	return strings.Join(parts, " ")
}

func (p *Person) Gender() Gender {
	return ParseGender(p.attributes.Gender)
}

func (p *Person) BirthDate() string {
	return normalizeDate(p.attributes.BirthDate)
}

func (p *Person) DeathDate() string {
	return normalizeDate(p.attributes.DeathDate)
}

func (p *Person) BirthLocation() string {
	return p.attributes.BirthLocation
}

func (p *Person) DeathLocation() string {
	return p.attributes.DeathLocation
}

// BirthYear returns 0 if unknown
func (p *Person) BirthYear() int {
	return YearOf(p.attributes.BirthDate)
}

// DeathYear returns 0 if unknown
func (p *Person) DeathYear() int {
	return YearOf(p.attributes.DeathDate)
}

func (p *Person) Privacy() int {
	return p.attributes.Privacy
}

func (p *Person) Photo() string {
	return p.attributes.Photo
}

// DataStatus returns the upstream status for a field, if any
func (p *Person) DataStatus(field string) string {
	return p.attributes.DataStatus[field]
}

// FatherId returns 0 for unknown
func (p *Person) FatherId() int {
	return p.father
}

// MotherId returns 0 for unknown
func (p *Person) MotherId() int {
	return p.mother
}

// Father returns the loaded father, nil if unknown or not loaded
func (p *Person) Father() *Person {
	if p.father == 0 {
		return nil
	}

	return p.parents[p.father]
}

// Mother returns the loaded mother, nil if unknown or not loaded
func (p *Person) Mother() *Person {
	if p.mother == 0 {
		return nil
	}

	return p.parents[p.mother]
}

// Parents returns the loaded parents, nil if not loaded
func (p *Person) Parents() map[int]*Person {
	return maps.Clone(p.parents)
}

// Siblings returns the loaded siblings, nil if not loaded
func (p *Person) Siblings() map[int]*Person {
	return maps.Clone(p.siblings)
}

// Children returns the loaded children, nil if not loaded
func (p *Person) Children() map[int]*Person {
	return maps.Clone(p.children)
}

// Spouses returns the loaded spouses, nil if not loaded
func (p *Person) Spouses() map[int]*Person {
	return maps.Clone(p.spouses)
}

// Marriages returns the marriage data per spouse id
func (p *Person) Marriages() map[int]Marriage {
	return maps.Clone(p.marriages)
}

// Marriage returns the marriage data with a given spouse
func (p *Person) Marriage(spouseId int) (Marriage, bool) {
	marriage, found := p.marriages[spouseId]
	return marriage, found
}

// CurrentSpouseId returns 0 if there is none
func (p *Person) CurrentSpouseId() int {
	return p.currentSpouseId
}

// CurrentSpouse returns the loaded current spouse, nil otherwise
func (p *Person) CurrentSpouse() *Person {
	if p.currentSpouseId == 0 {
		return nil
	}

	return p.spouses[p.currentSpouseId]
}

// HasSpouse returns true if a current spouse is loaded now
func (p *Person) HasSpouse() bool {
	return p.CurrentSpouse() != nil
}

// HasNoSpouse returns true if upstream states there is no more spouse and none is loaded.
// It is not the negation of HasSpouse: both are false when we do not know.
func (p *Person) HasNoSpouse() bool {
	return p.DataStatus(DATA_STATUS_SPOUSE) == SPOUSE_STATUS_BLANK && len(p.spouses) == 0
}

// IsDiedYoung returns true if flagged upstream, or if death happened between 0 and 10 years old
func (p *Person) IsDiedYoung() bool {
	if p.attributes.DiedYoung {
		return true
	}

	if !p.diedYoungComputed {
		birth, death := p.BirthYear(), p.DeathYear()
		age := death - birth
		p.diedYoung = birth != 0 && death != 0 && age >= 0 && age <= 10
		p.diedYoungComputed = true
	}

	return p.diedYoung
}

// Richness returns the flags of loaded relation sets
func (p *Person) Richness() Richness {
	if p == nil {
		return 0
	}

	if !p.richnessComputed {
		p.richness = richnessOf(p.siblings != nil, p.parents != nil, p.spouses != nil, p.children != nil)
		p.richnessComputed = true
	}

	return p.richness
}

// IsFullyEnriched returns true if all relation sets are loaded, even empty
func (p *Person) IsFullyEnriched() bool {
	return p.Richness() == RICHNESS_FULL
}
