package stockcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/stockcheck/internal/logging"
	"github.com/aretw0/stockcheck/internal/runtime"
	"github.com/aretw0/stockcheck/pkg/adapters/memory"
	"github.com/aretw0/stockcheck/pkg/catalog"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/ports"
	"github.com/aretw0/stockcheck/pkg/session"
)

// App is the application context: one catalog, one value store and the
// conversations currently collecting against them.
type App struct {
	engine   *runtime.Engine
	catalog  *catalog.Catalog
	values   ports.ValueStore
	sessions *session.Registry

	hooks     domain.LifecycleHooks
	skipToken string
	logger    *slog.Logger
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithSessions replaces the default in-memory session registry.
func WithSessions(sessions *session.Registry) Option {
	return func(a *App) {
		a.sessions = sessions
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithSkipToken overrides the reserved "/skip" answer.
func WithSkipToken(token string) Option {
	return func(a *App) {
		a.skipToken = token
	}
}

// New builds the application and seeds every catalog item into values.
// Seeding never overwrites an existing value.
func New(ctx context.Context, cat *catalog.Catalog, values ports.ValueStore, opts ...Option) (*App, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if values == nil {
		return nil, errors.New("value store is required")
	}

	app := &App{
		catalog: cat,
		values:  values,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = logging.NewNop()
	}
	if app.sessions == nil {
		app.sessions = session.NewRegistry(memory.NewStore(), session.WithLogger(app.logger))
	}

	if err := values.EnsureSeeded(ctx, cat.Names()); err != nil {
		return nil, fmt.Errorf("%w: seed: %w", domain.ErrPersistence, err)
	}
	app.logger.Debug("Catalog seeded", "items", cat.Len())

	app.engine = runtime.NewEngine(cat, values,
		runtime.WithLifecycleHooks(app.hooks),
		runtime.WithLogger(app.logger),
		runtime.WithSkipToken(app.skipToken),
	)
	return app, nil
}

// Report builds the report from the current store contents, outside of any session.
func (a *App) Report(ctx context.Context) (domain.Report, error) {
	return a.engine.Report(ctx)
}

// Current re-renders the pending prompt of a collecting conversation.
// Returns domain.ErrSessionNotFound when the conversation is idle.
func (a *App) Current(ctx context.Context, conversationID string) (*domain.Prompt, error) {
	state, err := a.sessions.Load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return a.engine.Prompt(ctx, state)
}

// Catalog returns the catalog being collected.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Values returns the underlying value store.
func (a *App) Values() ports.ValueStore {
	return a.values
}

// Sessions returns the session registry, e.g. to run its janitor.
func (a *App) Sessions() *session.Registry {
	return a.sessions
}

// SkipToken returns the reserved skip answer in effect.
func (a *App) SkipToken() string {
	return a.engine.SkipToken()
}
