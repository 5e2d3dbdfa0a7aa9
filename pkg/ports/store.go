package ports

import (
	"context"

	"github.com/aretw0/stockcheck/pkg/domain"
)

// ValueStore persists the last reported value of every catalog item.
//
// Rows are never deleted. Concurrent writers to the same item are not
// coordinated: the last write wins.
type ValueStore interface {
	// Get returns the last committed value, or the seed default if never set.
	// Returns domain.ErrItemNotFound if no row exists for name.
	Get(ctx context.Context, name string) (string, error)

	// Set stores value verbatim.
	Set(ctx context.Context, name, value string) error

	// EnsureSeeded creates a row holding domain.DefaultValue for every name
	// that does not have one yet. Existing rows are left untouched.
	EnsureSeeded(ctx context.Context, names []string) error

	// Snapshot returns every stored row.
	Snapshot(ctx context.Context) (map[string]string, error)
}

// SessionStore holds in-flight collection states keyed by conversation ID.
type SessionStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
