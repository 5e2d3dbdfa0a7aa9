package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunValueStoreContract runs a suite of tests to verify that a ValueStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunValueStoreContract(t *testing.T, store ValueStore) {
	ctx := context.Background()
	names := []string{"Апельсин", "Soap", "Napkins"}

	t.Run("Get Before Seed", func(t *testing.T) {
		_, err := store.Get(ctx, "never-seeded")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("Seed Defaults", func(t *testing.T) {
		require.NoError(t, store.EnsureSeeded(ctx, names))
		for _, name := range names {
			v, err := store.Get(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, domain.DefaultValue, v, "seed default for %s", name)
		}
	})

	t.Run("Set And Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "Апельсин", "1.5"))
		v, err := store.Get(ctx, "Апельсин")
		require.NoError(t, err)
		assert.Equal(t, "1.5", v)

		// Verbatim, no coercion.
		require.NoError(t, store.Set(ctx, "Soap", "  МАЛО "))
		v, err = store.Get(ctx, "Soap")
		require.NoError(t, err)
		assert.Equal(t, "  МАЛО ", v)
	})

	t.Run("Seed Is Idempotent", func(t *testing.T) {
		require.NoError(t, store.EnsureSeeded(ctx, append(names, "Late Addition")))

		v, err := store.Get(ctx, "Апельсин")
		require.NoError(t, err)
		assert.Equal(t, "1.5", v, "seeding must not overwrite an existing row")

		v, err = store.Get(ctx, "Late Addition")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultValue, v)
	})

	t.Run("Snapshot", func(t *testing.T) {
		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"Апельсин":      "1.5",
			"Soap":          "  МАЛО ",
			"Napkins":       domain.DefaultValue,
			"Late Addition": domain.DefaultValue,
		}, snap)
	})
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := fmt.Sprintf("contract-test-session-%d", time.Now().UnixNano())

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Cursor = 7

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, 7, loaded.Cursor)
		assert.Equal(t, sessionID, loaded.SessionID)
		assert.WithinDuration(t, state.StartedAt, loaded.StartedAt, time.Second)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1))
		_ = store.Save(ctx, id2, domain.NewState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
