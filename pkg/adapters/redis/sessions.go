package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/stockcheck/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// SessionStore implements ports.SessionStore using Redis.
//
// Each collection state is a JSON string under <prefix><sessionID>. A sorted
// set beside the prefix scores session IDs by their last activity, so List
// returns the least recently touched conversation first and drops the ones
// that have been idle past the TTL.
type SessionStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// SessionOption configures the SessionStore.
type SessionOption func(*SessionStore)

// WithTTL sets how long a session may sit idle in Redis. Zero keeps sessions forever.
func WithTTL(ttl time.Duration) SessionOption {
	return func(s *SessionStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) SessionOption {
	return func(s *SessionStore) {
		s.prefix = prefix
	}
}

// WithSessionClock overrides time.Now for idle expiry.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionStore creates a session store from an existing client.
func NewSessionStore(client *backend.Client, opts ...SessionOption) *SessionStore {
	store := &SessionStore{
		client: client,
		prefix: DefaultPrefix + "session:",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *SessionStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// IndexKey is the activity index. It sits next to the session keys rather than
// under the prefix, so no session ID can collide with it.
func (s *SessionStore) IndexKey() string {
	return strings.TrimSuffix(s.prefix, ":") + ".index"
}

func activity(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// Save stores the state and records its TouchedAt in the index in one transaction.
// The key expires TTL after the state was last touched; a state that is already
// idle past the TTL is removed instead of being written back.
func (s *SessionStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty")
	}
	if state == nil {
		return fmt.Errorf("nil state for session %s", sessionID)
	}

	touched := state.TouchedAt
	if touched.IsZero() {
		touched = s.now()
	}

	var expiry time.Duration
	if s.ttl > 0 {
		expiry = touched.Add(s.ttl).Sub(s.now())
		if expiry <= 0 {
			return s.Delete(ctx, sessionID)
		}
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, s.key(sessionID), data, expiry)
		pipe.ZAdd(ctx, s.IndexKey(), backend.Z{Score: activity(touched), Member: sessionID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

// Load retrieves the state. A session whose key has expired is also dropped
// from the index.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			// Best effort; List prunes the entry anyway.
			_ = s.client.ZRem(ctx, s.IndexKey(), sessionID).Err()
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var state domain.State
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return &state, nil
}

// Delete removes the session and its index entry.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.key(sessionID))
		pipe.ZRem(ctx, s.IndexKey(), sessionID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// List returns the stored session IDs, least recently touched first.
// With a TTL, entries idle longer than the TTL are pruned from the index first.
func (s *SessionStore) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		cutoff := activity(s.now().Add(-s.ttl))
		// Exclusive bound: a session touched exactly TTL ago is still live.
		err := s.client.ZRemRangeByScore(ctx, s.IndexKey(), "-inf", "("+strconv.FormatFloat(cutoff, 'f', -1, 64)).Err()
		if err != nil {
			return nil, fmt.Errorf("failed to prune idle sessions: %w", err)
		}
	}

	sessions, err := s.client.ZRange(ctx, s.IndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
