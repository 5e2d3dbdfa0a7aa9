package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/stockcheck/pkg/adapters/memory"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func TestRegistry_LockLifecycle(t *testing.T) {
	reg := NewRegistry(memory.NewStore())
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = reg.WithLock(ctx, sid, func(ctx context.Context) error {
			return reg.Save(ctx, sid, domain.NewState(sid))
		})
		_ = reg.WithLock(ctx, sid, func(ctx context.Context) error {
			return reg.Delete(ctx, sid)
		})
	}

	assert.Empty(t, reg.locks, "lock entries must be released once unused")
}

func TestRegistry_WithLockSerializes(t *testing.T) {
	reg := NewRegistry(memory.NewStore())
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.WithLock(ctx, "chat-1", func(ctx context.Context) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

type recordingLocker struct {
	locked   []string
	unlocked int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.locked = append(l.locked, key)
	return func(ctx context.Context) error {
		l.unlocked++
		return nil
	}, nil
}

func TestRegistry_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	reg := NewRegistry(memory.NewStore(), WithLocker(locker))

	err := reg.WithLock(context.Background(), "chat-1", func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"chat-1"}, locker.locked)
	assert.Equal(t, 1, locker.unlocked)
}

func TestRegistry_SaveRefreshesTouch(t *testing.T) {
	clock := newClock()
	reg := NewRegistry(memory.NewStore(), WithClock(clock.Now))
	ctx := context.Background()

	state := &domain.State{Cursor: 3}
	require.NoError(t, reg.Save(ctx, "chat-1", state))

	loaded, err := reg.Load(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, "chat-1", loaded.SessionID)
	assert.Equal(t, 3, loaded.Cursor)
	assert.Equal(t, clock.Now(), loaded.TouchedAt)
}

func TestRegistry_IdleExpiry(t *testing.T) {
	clock := newClock()
	store := memory.NewStore()
	reg := NewRegistry(store, WithClock(clock.Now), WithTTL(10*time.Minute))
	ctx := context.Background()

	require.NoError(t, reg.Save(ctx, "chat-1", domain.NewState("chat-1")))

	clock.Advance(9 * time.Minute)
	active, err := reg.Active(ctx, "chat-1")
	require.NoError(t, err)
	assert.True(t, active)

	clock.Advance(2 * time.Minute)
	_, err = reg.Load(ctx, "chat-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = store.Load(ctx, "chat-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "expired session is dropped from the store")
}

func TestRegistry_Sweep(t *testing.T) {
	clock := newClock()
	reg := NewRegistry(memory.NewStore(), WithClock(clock.Now), WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, reg.Save(ctx, "old-1", domain.NewState("old-1")))
	require.NoError(t, reg.Save(ctx, "old-2", domain.NewState("old-2")))
	clock.Advance(2 * time.Minute)
	require.NoError(t, reg.Save(ctx, "fresh", domain.NewState("fresh")))

	removed, err := reg.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	ids, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, ids)
}

func TestRegistry_SweepDisabledWithoutTTL(t *testing.T) {
	clock := newClock()
	reg := NewRegistry(memory.NewStore(), WithClock(clock.Now), WithTTL(0))
	ctx := context.Background()

	require.NoError(t, reg.Save(ctx, "chat-1", domain.NewState("chat-1")))
	clock.Advance(24 * time.Hour)

	removed, err := reg.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = reg.Load(ctx, "chat-1")
	assert.NoError(t, err)
}

func TestRegistry_CapacityEvictsLeastRecentlyTouched(t *testing.T) {
	clock := newClock()
	reg := NewRegistry(memory.NewStore(), WithClock(clock.Now), WithCapacity(2), WithTTL(0))
	ctx := context.Background()

	require.NoError(t, reg.Save(ctx, "a", domain.NewState("a")))
	clock.Advance(time.Second)
	require.NoError(t, reg.Save(ctx, "b", domain.NewState("b")))
	clock.Advance(time.Second)
	// Touch "a" again so "b" becomes the oldest.
	require.NoError(t, reg.Save(ctx, "a", domain.NewState("a")))
	clock.Advance(time.Second)
	require.NoError(t, reg.Save(ctx, "c", domain.NewState("c")))

	ids, err := reg.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, ids)
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := NewRegistry(memory.NewStore(), WithTTL(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, reg.Save(ctx, "chat-1", domain.NewState("chat-1")))

	done := make(chan struct{})
	go func() {
		reg.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		ids, _ := reg.List(context.Background())
		return len(ids) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
