package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPrompt EventType = "prompt"
	EventAnswer EventType = "answer"
	EventReport EventType = "report"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// PromptEvent is emitted whenever a prompt is produced.
type PromptEvent struct {
	EventBase
	Item     string `json:"item"`
	Position int    `json:"position"`
}

// AnswerEvent is emitted once an answer has been applied.
type AnswerEvent struct {
	EventBase
	Item    string `json:"item"`
	Skipped bool   `json:"skipped"`
}

// ReportEvent is emitted when a run completes and the report is built.
type ReportEvent struct {
	EventBase
	Items     int      `json:"items"`
	Deficient []string `json:"deficient"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnPrompt func(context.Context, *PromptEvent)
	OnAnswer func(context.Context, *AnswerEvent)
	OnReport func(context.Context, *ReportEvent)
}
