package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"sync"

	"github.com/aretw0/stockcheck/pkg/domain"
)

// DefaultValuesPath is used when NewValueStore receives an empty path.
const DefaultValuesPath = "stock.json"

// ValueStore implements ports.ValueStore as a single JSON object on disk.
// The file is rewritten atomically on every mutation; reads are served from
// memory after the first load.
type ValueStore struct {
	Path string

	mu     sync.Mutex
	rows   map[string]string
	loaded bool
}

// NewValueStore creates a file-backed value store.
func NewValueStore(path string) *ValueStore {
	if path == "" {
		path = DefaultValuesPath
	}
	return &ValueStore{Path: path}
}

// load reads the file once. Callers hold s.mu.
func (s *ValueStore) load() error {
	if s.loaded {
		return nil
	}
	rows := map[string]string{}
	data, err := os.ReadFile(s.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read values file: %w", err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("failed to unmarshal values file: %w", err)
		}
	}
	s.rows = rows
	s.loaded = true
	return nil
}

// flush writes next to disk and only then makes it current.
func (s *ValueStore) flush(next map[string]string) error {
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal values: %w", err)
	}
	if err := writeAtomic(s.Path, data); err != nil {
		return err
	}
	s.rows = next
	return nil
}

// Get returns the stored value for name.
func (s *ValueStore) Get(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return "", err
	}
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
	if err := s.load(); err != nil {
		return err
	}
	next := maps.Clone(s.rows)
	next[name] = value
	return s.flush(next)
}

// EnsureSeeded inserts the default for names without a row.
// The file is left untouched when nothing is missing.
func (s *ValueStore) EnsureSeeded(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	next := maps.Clone(s.rows)
	for _, name := range names {
		if _, ok := next[name]; !ok {
			next[name] = domain.DefaultValue
		}
	}
	if len(next) == len(s.rows) {
		return nil
	}
	return s.flush(next)
}

// Snapshot returns a copy of every row.
func (s *ValueStore) Snapshot(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	return maps.Clone(s.rows), nil
}
