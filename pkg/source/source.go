package source

import (
	"context"
	"slices"
	"sync"

	"github.com/deepgen/famtree/pkg/person"
)

// Source provides a complete person list.
type Source interface {
	Load(ctx context.Context) ([]person.Record, error)
}

// Saver is implemented by sources that can replace their stored list.
type Saver interface {
	Save(ctx context.Context, persons []person.Record) error
}

// Static is an in-memory source. It is safe for concurrent use.
type Static struct {
	mu      sync.RWMutex
	persons []person.Record
}

// NewStatic returns a source serving a copy of persons.
func NewStatic(persons []person.Record) *Static {
	return &Static{persons: slices.Clone(persons)}
}

// Load returns a copy of the current list.
func (s *Static) Load(context.Context) ([]person.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.persons), nil
}

// Save replaces the list.
func (s *Static) Save(_ context.Context, persons []person.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons = slices.Clone(persons)
	return nil
}

var (
	_ Source = (*Static)(nil)
	_ Saver  = (*Static)(nil)
)
