package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/aretw0/stockcheck/pkg/domain"
)

// ValueStore implements ports.ValueStore in memory.
// Values are lost when the process exits.
type ValueStore struct {
	mu   sync.RWMutex
	rows map[string]string
}

// NewValueStore creates an empty in-memory value store.
func NewValueStore() *ValueStore {
	return &ValueStore{rows: make(map[string]string)}
}

// Get returns the stored value for name.
func (s *ValueStore) Get(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.rows[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrItemNotFound, name)
	}
	return v, nil
}

// Set stores value verbatim.
func (s *ValueStore) Set(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[name] = value
	return nil
}

// EnsureSeeded inserts the default for names without a row.
func (s *ValueStore) EnsureSeeded(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		if _, ok := s.rows[name]; !ok {
			s.rows[name] = domain.DefaultValue
		}
	}
	return nil
}

// Snapshot returns a copy of every row.
func (s *ValueStore) Snapshot(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.rows), nil
}
