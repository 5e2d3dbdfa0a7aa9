// Package runtime implements the collection state machine that walks an
// operator through the catalog one item at a time.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stockcheck/internal/logging"
	"github.com/aretw0/stockcheck/pkg/catalog"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/ports"
	"github.com/aretw0/stockcheck/pkg/report"
)

// DefaultSkipToken is the reserved answer that keeps an item's previous value.
const DefaultSkipToken = "/skip"

// Step is the outcome of starting or advancing a run.
// Exactly one of Prompt or Report is set.
type Step struct {
	Prompt *domain.Prompt
	Report *domain.Report
	Done   bool
}

// Engine is the collection state machine. It holds no per-session data;
// callers own the *domain.State between messages.
type Engine struct {
	catalog   *catalog.Catalog
	values    ports.ValueStore
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	skipToken string
	now       func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSkipToken overrides DefaultSkipToken.
func WithSkipToken(token string) EngineOption {
	return func(e *Engine) {
		if token != "" {
			e.skipToken = token
		}
	}
}

// NewEngine creates an engine over a catalog and the value store it was seeded into.
func NewEngine(cat *catalog.Catalog, values ports.ValueStore, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:   cat,
		values:    values,
		logger:    logging.NewNop(),
		skipToken: DefaultSkipToken,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SkipToken returns the reserved skip answer.
func (e *Engine) SkipToken() string {
	return e.skipToken
}

// Catalog returns the catalog being traversed.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Start begins a run at the first item.
// With an empty catalog there is nothing to ask: the run completes at once,
// the returned state is nil and the step carries the (empty) report.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, Step, error) {
	state := domain.NewState(sessionID)
	state.StartedAt = e.now()
	state.TouchedAt = state.StartedAt

	if e.catalog.Len() == 0 {
		step, err := e.finish(ctx, sessionID)
		if err != nil {
			return nil, Step{}, err
		}
		return nil, step, nil
	}

	prompt, err := e.Prompt(ctx, state)
	if err != nil {
		return nil, Step{}, err
	}
	e.emitPrompt(ctx, sessionID, prompt)
	return state, Step{Prompt: prompt}, nil
}

// Answer applies one operator message to the current item and advances the cursor.
//
// The skip token leaves the stored value alone; anything else is stored verbatim.
// If any store access fails, the original state is returned unchanged together with
// the error, so the same prompt stays current and the operator can resend.
// When the last item is answered the returned state is nil and the step carries the report.
func (e *Engine) Answer(ctx context.Context, state *domain.State, input string) (*domain.State, Step, error) {
	if state == nil {
		return nil, Step{}, domain.ErrNoSession
	}
	item, ok := e.catalog.At(state.Cursor)
	if !ok {
		return state, Step{}, fmt.Errorf("%w: cursor %d outside catalog of %d items", domain.ErrNoSession, state.Cursor, e.catalog.Len())
	}

	skipped := input == e.skipToken
	if !skipped {
		if err := e.values.Set(ctx, item.Name, input); err != nil {
			e.logger.Error("Failed to store value", "session_id", state.SessionID, "item", item.Name, "err", err)
			return state, Step{}, fmt.Errorf("%w: set %q: %w", domain.ErrPersistence, item.Name, err)
		}
	}

	next := *state
	next.Cursor++
	next.TouchedAt = e.now()

	if next.Cursor < e.catalog.Len() {
		prompt, err := e.Prompt(ctx, &next)
		if err != nil {
			return state, Step{}, err
		}
		e.emitAnswer(ctx, state.SessionID, item.Name, skipped)
		e.emitPrompt(ctx, state.SessionID, prompt)
		return &next, Step{Prompt: prompt}, nil
	}

	step, err := e.finish(ctx, state.SessionID)
	if err != nil {
		return state, Step{}, err
	}
	e.emitAnswer(ctx, state.SessionID, item.Name, skipped)
	return nil, step, nil
}

// Prompt renders the question for the state's current item, fetching the previous value.
// It has no side effects, so re-rendering a pending prompt does not fire OnPrompt.
func (e *Engine) Prompt(ctx context.Context, state *domain.State) (*domain.Prompt, error) {
	item, ok := e.catalog.At(state.Cursor)
	if !ok {
		return nil, fmt.Errorf("%w: cursor %d outside catalog of %d items", domain.ErrNoSession, state.Cursor, e.catalog.Len())
	}

	previous, err := e.values.Get(ctx, item.Name)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			e.logger.Error("Catalog item has no stored row", "item", item.Name, "err", err)
			return nil, fmt.Errorf("%w: %q", domain.ErrInconsistent, item.Name)
		}
		e.logger.Error("Failed to read value", "session_id", state.SessionID, "item", item.Name, "err", err)
		return nil, fmt.Errorf("%w: get %q: %w", domain.ErrPersistence, item.Name, err)
	}

	prompt := &domain.Prompt{
		Item:     item,
		Previous: previous,
		Position: state.Cursor,
		Total:    e.catalog.Len(),
		Text:     FormatPrompt(item.Name, previous, e.skipToken),
	}
	return prompt, nil
}

// Report builds the report from the current store contents.
func (e *Engine) Report(ctx context.Context) (domain.Report, error) {
	snapshot, err := e.values.Snapshot(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("%w: snapshot: %w", domain.ErrPersistence, err)
	}
	for _, name := range e.catalog.Names() {
		if _, ok := snapshot[name]; !ok {
			e.logger.Error("Catalog item has no stored row, reporting default", "item", name)
		}
	}
	return report.Build(e.catalog, snapshot), nil
}

func (e *Engine) finish(ctx context.Context, sessionID string) (Step, error) {
	r, err := e.Report(ctx)
	if err != nil {
		e.logger.Error("Failed to build report", "session_id", sessionID, "err", err)
		return Step{}, err
	}

	if e.hooks.OnReport != nil {
		e.hooks.OnReport(ctx, &domain.ReportEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventReport, SessionID: sessionID},
			Items:     len(r.Lines),
			Deficient: r.Deficient,
		})
	}
	return Step{Report: &r, Done: true}, nil
}

func (e *Engine) emitAnswer(ctx context.Context, sessionID, item string, skipped bool) {
	if e.hooks.OnAnswer == nil {
		return
	}
	e.hooks.OnAnswer(ctx, &domain.AnswerEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventAnswer, SessionID: sessionID},
		Item:      item,
		Skipped:   skipped,
	})
}

func (e *Engine) emitPrompt(ctx context.Context, sessionID string, prompt *domain.Prompt) {
	if e.hooks.OnPrompt == nil {
		return
	}
	e.hooks.OnPrompt(ctx, &domain.PromptEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventPrompt, SessionID: sessionID},
		Item:      prompt.Item.Name,
		Position:  prompt.Position,
	})
}
