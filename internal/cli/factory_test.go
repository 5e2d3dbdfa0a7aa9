package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stockcheck"
	"github.com/aretw0/stockcheck/internal/config"
	"github.com/aretw0/stockcheck/internal/logging"
	"github.com/aretw0/stockcheck/pkg/adapters/file"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, cfg config.Config) *Runtime {
	t.Helper()
	rt, err := Build(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestBuild_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverMemory

	rt := build(t, cfg)
	ctx := context.Background()

	reply, err := rt.App.Handle(ctx, "c1", "/count")
	require.NoError(t, err)
	assert.Equal(t, stockcheck.PhaseCollecting, reply.Phase)

	count, err := testutil.GatherAndCount(rt.Registry, "stockcheck_prompts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	storeOps, err := testutil.GatherAndCount(rt.Registry, "stockcheck_store_operations_total")
	require.NoError(t, err)
	assert.Positive(t, storeOps, "value store is instrumented")

	snapshot, err := rt.App.Values().Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot, rt.App.Catalog().Len(), "catalog is seeded on build")
}

func TestBuild_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "data", "stock.db")

	rt := build(t, cfg)
	_, err := os.Stat(cfg.Storage.Path)
	require.NoError(t, err)

	require.NoError(t, rt.App.Values().Set(context.Background(), "Orange", "3"))
	require.NoError(t, rt.Close())
	require.NoError(t, rt.Close(), "second close is a no-op")

	reopened := build(t, cfg)
	value, err := reopened.App.Values().Get(context.Background(), "Orange")
	require.NoError(t, err)
	assert.Equal(t, "3", value)
}

func TestBuild_FileBackends(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverFile
	cfg.Storage.Path = filepath.Join(dir, "values.json")
	cfg.Sessions.Backend = config.DriverFile
	cfg.Sessions.Path = filepath.Join(dir, "sessions")

	rt := build(t, cfg)
	_, err := rt.App.Handle(context.Background(), "chat-1", "/count")
	require.NoError(t, err)

	_, err = os.Stat(cfg.Storage.Path)
	assert.NoError(t, err, "seeding writes the values file")
	_, err = os.Stat(filepath.Join(cfg.Sessions.Path, "chat-1.json"))
	assert.NoError(t, err, "active session is persisted")
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, file.DefaultValuesPath, filePath(""))
	assert.Equal(t, file.DefaultValuesPath, filePath(config.Default().Storage.Path))
	assert.Equal(t, "custom.json", filePath("custom.json"))
}

func TestBuild_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Storage.Driver = config.DriverRedis
	cfg.Sessions.Backend = config.DriverRedis
	cfg.Sessions.Lock = true
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Prefix = "test:"

	rt := build(t, cfg)
	_, err := rt.App.Handle(context.Background(), "chat-1", "/count")
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:values"))
	assert.True(t, mr.Exists("test:session:chat-1"))
	assert.False(t, mr.Exists("test:lock:chat-1"), "lock is released after the message")
}

func TestBuild_CustomCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quantities:\n  Orange: 2\nyes_no:\n  - Soap\n"), 0o644))

	cfg := config.Default()
	cfg.Storage.Driver = config.DriverMemory
	cfg.Catalog = path

	rt := build(t, cfg)
	assert.Equal(t, []string{"Orange", "Soap"}, rt.App.Catalog().Names())
}

func TestBuild_Errors(t *testing.T) {
	t.Run("missing catalog", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Driver = config.DriverMemory
		cfg.Catalog = filepath.Join(t.TempDir(), "nope.yaml")

		_, err := Build(context.Background(), cfg, logging.NewNop())
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Driver = "cassandra"

		_, err := Build(context.Background(), cfg, logging.NewNop())
		assert.ErrorContains(t, err, "cassandra")
	})

	t.Run("unknown session backend", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Driver = config.DriverMemory
		cfg.Sessions.Backend = "etcd"

		_, err := Build(context.Background(), cfg, logging.NewNop())
		assert.ErrorContains(t, err, "etcd")
	})
}
