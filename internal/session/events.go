package session

import "github.com/shopspring/decimal"

// EventType identifies an observable session event.
type EventType string

const (
	EventPhaseChanged    EventType = "phase_changed"
	EventRoundSucceeded  EventType = "round_succeeded"
	EventRoundFailed     EventType = "round_failed"
	EventSessionComplete EventType = "session_complete"
)

// Failure reasons carried on round_failed events.
const (
	ReasonMismatch = "mismatch"
	ReasonTimeout  = "timeout"
	ReasonTooEarly = "too_early"
)

// Event is a domain event emitted by the controller. Events are dispatched
// after the triggering call releases the session lock, so listeners may call
// back into the controller.
type Event struct {
	Type   EventType `json:"type"`
	GameID string    `json:"game_id"`
	Phase  Phase     `json:"phase"`
	Level  int       `json:"level"`
	Score  int       `json:"score"`
	Round  int       `json:"round"`
	Reason string    `json:"reason,omitempty"`

	// Populated on session_complete only.
	FinalScore       int             `json:"final_score,omitempty"`
	FinalTimeSeconds decimal.Decimal `json:"final_time_seconds,omitempty"`
	NewRecord        bool            `json:"new_record,omitempty"`
}
