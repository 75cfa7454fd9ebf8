// Package memory is an in-process record store.
package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/store"
)

type Store struct {
	mu          sync.Mutex
	initialized bool
	items       []core.Record
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewWithRecords returns an initialized store seeded with records in order.
func NewWithRecords(records ...core.Record) *Store {
	return &Store{initialized: true, items: append([]core.Record(nil), records...)}
}

func (s *Store) EnsureInitialized(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

// Append stores r verbatim.
func (s *Store) Append(_ context.Context, r core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	s.items = append(s.items, r)
	return nil
}

// ReadAll returns a copy of the stored records in append order.
func (s *Store) ReadAll(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return nil, nil
	}
	return append([]core.Record(nil), s.items...), nil
}

// Initialized reports whether EnsureInitialized or Append has run.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}
