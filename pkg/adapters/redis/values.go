package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/stockcheck/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key this package writes.
const DefaultPrefix = "stockcheck:"

// ValueStore implements ports.ValueStore as a single Redis hash.
type ValueStore struct {
	client *backend.Client
	prefix string
}

// ValueOption configures the ValueStore.
type ValueOption func(*ValueStore)

// WithValuePrefix sets the key prefix.
func WithValuePrefix(prefix string) ValueOption {
	return func(s *ValueStore) {
		s.prefix = prefix
	}
}

// NewValueStore creates a value store on an existing client.
func NewValueStore(client *backend.Client, opts ...ValueOption) *ValueStore {
	s := &ValueStore{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ValueStore) key() string {
	return s.prefix + "values"
}

// Get returns the stored value for name.
func (s *ValueStore) Get(ctx context.Context, name string) (string, error) {
	v, err := s.client.HGet(ctx, s.key(), name).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", fmt.Errorf("%w: %q", domain.ErrItemNotFound, name)
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return v, nil
}

// Set stores value verbatim.
func (s *ValueStore) Set(ctx context.Context, name, value string) error {
	if err := s.client.HSet(ctx, s.key(), name, value).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// EnsureSeeded writes the default with HSETNX so existing fields are kept.
func (s *ValueStore) EnsureSeeded(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, name := range names {
		pipe.HSetNX(ctx, s.key(), name, domain.DefaultValue)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed redis: %w", err)
	}
	return nil
}

// Snapshot returns every field of the hash.
func (s *ValueStore) Snapshot(ctx context.Context) (map[string]string, error) {
	all, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read redis hash: %w", err)
	}
	return all, nil
}
