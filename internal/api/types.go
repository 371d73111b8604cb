package api

import (
	"github.com/neuromint/neuromint-go/internal/games"
	"github.com/neuromint/neuromint-go/internal/session"
)

// APIError is the structured error payload every failing endpoint returns.
type APIError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

func (e APIError) Error() string {
	return e.Message
}

// Error type constants
const (
	ErrTypeValidation      = "validation_error"
	ErrTypeInvalidParams   = "invalid_params"
	ErrTypeGameNotFound    = "game_not_found"
	ErrTypeSessionNotFound = "session_not_found"
	ErrTypeScript          = "script_error"
	ErrTypeInternal        = "internal_error"
	ErrTypeStore           = "store_error"
)

// ErrorCategory buckets error types for monitoring.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGame       ErrorCategory = "game"
	CategorySystem     ErrorCategory = "system"
)

// GetErrorCategory returns the category for an error type.
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidParams:
		return CategoryValidation
	case ErrTypeGameNotFound, ErrTypeSessionNotFound, ErrTypeScript:
		return CategoryGame
	default:
		return CategorySystem
	}
}

// CreateSessionRequest starts a session of a registered game. A zero Seed
// asks for entropy seeding; a fixed seed replays the same stimuli.
type CreateSessionRequest struct {
	GameID string `json:"game_id"`
	Seed   uint32 `json:"seed,omitempty"`
}

// SessionResponse wraps a session snapshot with its handle.
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	Snapshot  session.Snapshot `json:"snapshot"`
}

// InputRequest carries one response token.
type InputRequest struct {
	Token games.Token `json:"token"`
}

// EventsResponse is a page of buffered session events. Next is the cursor
// to pass as ?since= on the following poll.
type EventsResponse struct {
	Events []session.Event `json:"events"`
	Next   int             `json:"next"`
}

// CustomGameRequest registers a scripted game definition.
type CustomGameRequest struct {
	Source string `json:"source"`
}

// CustomGameResponse returns the compiled rules and any script log output.
type CustomGameResponse struct {
	Rules games.Rules `json:"rules"`
	Logs  []string    `json:"logs,omitempty"`
}
