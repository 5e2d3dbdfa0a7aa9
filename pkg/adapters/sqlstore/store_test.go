package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/stockcheck/pkg/adapters/sqlstore"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, path string) *sqlstore.ValueStore {
	t.Helper()
	store, err := sqlstore.Open(context.Background(), sqlstore.SQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteValueStore_Contract(t *testing.T) {
	store := openSQLite(t, filepath.Join(t.TempDir(), "stock.db"))
	ports.RunValueStoreContract(t, store)
}

func TestSQLiteValueStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "stock.db")

	first, err := sqlstore.Open(ctx, sqlstore.SQLite, path)
	require.NoError(t, err)
	require.NoError(t, first.EnsureSeeded(ctx, []string{"Молоко", "Салфетки"}))
	require.NoError(t, first.Set(ctx, "Молоко", "12"))
	require.NoError(t, first.Close())

	second := openSQLite(t, path)
	require.NoError(t, second.EnsureSeeded(ctx, []string{"Молоко", "Салфетки"}))

	v, err := second.Get(ctx, "Молоко")
	require.NoError(t, err)
	assert.Equal(t, "12", v, "reseeding after restart must keep the stored value")

	v, err = second.Get(ctx, "Салфетки")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultValue, v)
}

func TestDialectFor(t *testing.T) {
	for name, want := range map[string]string{
		"sqlite":   "sqlite",
		"sqlite3":  "sqlite",
		"postgres": "pgx",
		"pgx":      "pgx",
		"mysql":    "mysql",
	} {
		d, err := sqlstore.DialectFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, d.Driver, name)
	}

	_, err := sqlstore.DialectFor("oracle")
	assert.Error(t, err)
}

func TestDialects_SeedNeverOverwrites(t *testing.T) {
	assert.Contains(t, sqlstore.SQLite.Seed, "OR IGNORE")
	assert.Contains(t, sqlstore.Postgres.Seed, "DO NOTHING")
	assert.Contains(t, sqlstore.MySQL.Seed, "INSERT IGNORE")
}
