package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/stockcheck/internal/logging"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/ports"
)

const (
	// DefaultTTL is how long a session may sit idle before it is considered abandoned.
	DefaultTTL = 30 * time.Minute
	// DefaultCapacity bounds the number of concurrent sessions.
	DefaultCapacity = 1024
	// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
	DefaultLockTTL = 30 * time.Second
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Registry maps conversation IDs to collection states.
type Registry struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker
	lockTTL time.Duration

	ttl      time.Duration
	capacity int
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(r *Registry) {
		r.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithTTL sets the idle timeout. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.ttl = ttl
	}
}

// WithCapacity sets the maximum number of sessions. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(r *Registry) {
		r.capacity = n
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a Registry on top of a session store.
func NewRegistry(store ports.SessionStore, opts ...Option) *Registry {
	r := &Registry{
		store:    store,
		locks:    make(map[string]*lockEntry),
		lockTTL:  DefaultLockTTL,
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		now:      time.Now,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (r *Registry) acquire(sessionID string) *lockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		r.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (r *Registry) release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(r.locks, sessionID)
	}
}

// WithLock executes fn while holding the lock for the session.
// Load, Save and Delete do not lock on their own; callers handling a message
// wrap the whole load-answer-save sequence in WithLock.
func (r *Registry) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := r.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		r.release(sessionID)
	}()

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, sessionID, r.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				r.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Load returns the session's state.
// An expired session is deleted and reported as domain.ErrSessionNotFound.
func (r *Registry) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	state, err := r.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if r.expired(state) {
		r.logger.Info("Session expired", "session_id", sessionID, "idle", r.now().Sub(state.TouchedAt))
		if err := r.store.Delete(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("failed to drop expired session: %w", err)
		}
		return nil, domain.ErrSessionNotFound
	}
	return state, nil
}

// Active reports whether the conversation has a live session.
func (r *Registry) Active(ctx context.Context, sessionID string) (bool, error) {
	_, err := r.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Save stores the state, refreshing its idle timer, then enforces capacity.
func (r *Registry) Save(ctx context.Context, sessionID string, state *domain.State) error {
	touched := *state
	touched.SessionID = sessionID
	touched.TouchedAt = r.now()
	if err := r.store.Save(ctx, sessionID, &touched); err != nil {
		return err
	}
	return r.enforceCapacity(ctx, sessionID)
}

// Delete removes the session.
func (r *Registry) Delete(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, sessionID)
}

// List returns the IDs of stored sessions, expired ones included until swept.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}

// Sweep deletes every expired session and returns how many were removed.
func (r *Registry) Sweep(ctx context.Context) (int, error) {
	if r.ttl <= 0 {
		return 0, nil
	}
	ids, err := r.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	removed := 0
	for _, id := range ids {
		state, err := r.store.Load(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				continue
			}
			return removed, fmt.Errorf("failed to load session %s: %w", id, err)
		}
		if !r.expired(state) {
			continue
		}
		if err := r.store.Delete(ctx, id); err != nil {
			return removed, fmt.Errorf("failed to delete session %s: %w", id, err)
		}
		removed++
	}
	if removed > 0 {
		r.logger.Info("Swept expired sessions", "count", removed)
	}
	return removed, nil
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("Session sweep failed", "err", err)
			}
		}
	}
}

func (r *Registry) expired(state *domain.State) bool {
	return r.ttl > 0 && r.now().Sub(state.TouchedAt) > r.ttl
}

// enforceCapacity evicts the least recently touched sessions, never keep.
func (r *Registry) enforceCapacity(ctx context.Context, keep string) error {
	if r.capacity <= 0 {
		return nil
	}
	ids, err := r.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) <= r.capacity {
		return nil
	}

	type candidate struct {
		id      string
		touched time.Time
	}
	candidates := make([]candidate, 0, len(ids))
	for _, id := range ids {
		if id == keep {
			continue
		}
		state, err := r.store.Load(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				continue
			}
			return fmt.Errorf("failed to load session %s: %w", id, err)
		}
		candidates = append(candidates, candidate{id: id, touched: state.TouchedAt})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].touched.Before(candidates[j].touched)
	})

	overflow := len(ids) - r.capacity
	for i := 0; i < overflow && i < len(candidates); i++ {
		if err := r.store.Delete(ctx, candidates[i].id); err != nil {
			return fmt.Errorf("failed to evict session %s: %w", candidates[i].id, err)
		}
		r.logger.Info("Evicted session over capacity", "session_id", candidates[i].id)
	}
	return nil
}
