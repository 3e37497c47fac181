package people

import "context"

// Factory builds persons from raw records.
// Nested relations are built with the same factory, so a cache aware factory
// returns shared instances instead of fresh copies.
type Factory interface {
	Construct(record Record) (*Person, error)
}

// FactoryFunc adapts a function to a Factory
type FactoryFunc func(record Record) (*Person, error)

// Construct calls f
func (f FactoryFunc) Construct(record Record) (*Person, error) {
	return f(record)
}

// FreshFactory returns a factory always building new instances
func FreshFactory() Factory {
	return FactoryFunc(newFreshPerson)
}

func newFreshPerson(record Record) (*Person, error) {
	return NewPerson(record, nil)
}

// Loader fetches raw profiles by id.
// Missing profiles are not an error: result contains only found profiles.
type Loader interface {
	LoadProfiles(ctx context.Context, ids []int) ([]Record, error)
}
