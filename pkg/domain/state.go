package domain

import "time"

// State is the ephemeral collection state of one conversation.
type State struct {
	// SessionID identifies the conversation that owns this state.
	SessionID string `json:"session_id"`

	// Cursor is the index into the catalog's traversal order.
	Cursor int `json:"cursor"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// TouchedAt is refreshed on every accepted message and drives idle expiry.
	TouchedAt time.Time `json:"touched_at"`
}

// NewState creates a state positioned at the first catalog item.
func NewState(sessionID string) *State {
	now := time.Now()
	return &State{
		SessionID: sessionID,
		Cursor:    0,
		StartedAt: now,
		TouchedAt: now,
	}
}

// Prompt asks the operator for the value of one item.
type Prompt struct {
	Item     Entry  `json:"item"`
	Previous string `json:"previous"`
	Position int    `json:"position"`
	Total    int    `json:"total"`
	Text     string `json:"text"`
}
