// Package cli wires configuration into a ready-to-use App for the commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/stockcheck"
	"github.com/aretw0/stockcheck/internal/config"
	"github.com/aretw0/stockcheck/pkg/adapters/file"
	"github.com/aretw0/stockcheck/pkg/adapters/memory"
	redisadapter "github.com/aretw0/stockcheck/pkg/adapters/redis"
	"github.com/aretw0/stockcheck/pkg/adapters/sqlstore"
	"github.com/aretw0/stockcheck/pkg/catalog"
	"github.com/aretw0/stockcheck/pkg/observability"
	"github.com/aretw0/stockcheck/pkg/persistence/middleware"
	"github.com/aretw0/stockcheck/pkg/ports"
	"github.com/aretw0/stockcheck/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
)

// Runtime is an App plus everything that has to be released with it.
type Runtime struct {
	App      *stockcheck.App
	Config   config.Config
	Metrics  *observability.Metrics
	Registry *prometheus.Registry

	closers []io.Closer
}

// Close releases storage connections in reverse order of creation.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// builder carries the shared redis client between the value and session factories.
type builder struct {
	cfg     config.Config
	redis   *goredis.Client
	closers []io.Closer
}

func (b *builder) redisClient() *goredis.Client {
	if b.redis == nil {
		b.redis = goredis.NewClient(&goredis.Options{
			Addr:     b.cfg.Redis.Addr,
			Password: b.cfg.Redis.Password,
			DB:       b.cfg.Redis.DB,
		})
		b.closers = append(b.closers, b.redis)
	}
	return b.redis
}

func (b *builder) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i].Close()
	}
}

// Build initializes an App with the drivers named in cfg.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &builder{cfg: cfg}

	cat, err := LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	values, err := b.valueStore(ctx)
	if err != nil {
		b.close()
		return nil, err
	}

	sessions, err := b.sessionStore()
	if err != nil {
		b.close()
		return nil, err
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(promReg)
	values = middleware.Chain(values, middleware.Instrument(middleware.NewStoreMetrics(promReg)))

	regOpts := []session.Option{
		session.WithTTL(cfg.Sessions.TTL),
		session.WithCapacity(cfg.Sessions.Capacity),
		session.WithLogger(logger),
	}
	if cfg.Sessions.Lock {
		regOpts = append(regOpts, session.WithLocker(redisadapter.NewLocker(b.redisClient(), cfg.Redis.Prefix)))
	}

	app, err := stockcheck.New(ctx, cat, values,
		stockcheck.WithLogger(logger),
		stockcheck.WithSessions(session.NewRegistry(sessions, regOpts...)),
		stockcheck.WithLifecycleHooks(observability.Merge(metrics.Hooks(), observability.LoggingHooks(logger))),
		stockcheck.WithSkipToken(cfg.SkipToken),
	)
	if err != nil {
		b.close()
		return nil, fmt.Errorf("error initializing app: %w", err)
	}

	logger.Debug("app ready",
		"catalog", cat.Len(),
		"storage", cfg.Storage.Driver,
		"sessions", cfg.Sessions.Backend)

	return &Runtime{
		App:      app,
		Config:   cfg,
		Metrics:  metrics,
		Registry: promReg,
		closers:  b.closers,
	}, nil
}

// LoadCatalog reads the catalog at path, or returns the built-in one when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func (b *builder) valueStore(ctx context.Context) (ports.ValueStore, error) {
	storage := b.cfg.Storage
	switch storage.Driver {
	case config.DriverMemory:
		return memory.NewValueStore(), nil
	case config.DriverFile:
		return file.NewValueStore(filePath(storage.Path)), nil
	case config.DriverRedis:
		return redisadapter.NewValueStore(b.redisClient(), redisadapter.WithValuePrefix(b.cfg.Redis.Prefix)), nil
	case config.DriverSQLite, config.DriverPostgres, config.DriverMySQL:
		dialect, err := sqlstore.DialectFor(storage.Driver)
		if err != nil {
			return nil, err
		}
		dsn := storage.DSN
		if storage.Driver == config.DriverSQLite {
			dsn = storage.Path
		}
		store, err := sqlstore.Open(ctx, dialect, dsn)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, store)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", storage.Driver)
	}
}

// filePath swaps the sqlite default for the JSON default so switching
// drivers never writes JSON into a .db file.
func filePath(path string) string {
	if path == "" || path == config.Default().Storage.Path {
		return file.DefaultValuesPath
	}
	return path
}

func (b *builder) sessionStore() (ports.SessionStore, error) {
	switch b.cfg.Sessions.Backend {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverFile:
		return file.NewSessionStore(b.cfg.Sessions.Path), nil
	case config.DriverRedis:
		return redisadapter.NewSessionStore(b.redisClient(),
			redisadapter.WithPrefix(b.cfg.Redis.Prefix+"session:"),
			redisadapter.WithTTL(b.cfg.Sessions.TTL),
		), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", b.cfg.Sessions.Backend)
	}
}
