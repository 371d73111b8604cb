package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// DB is the persistence surface the engine needs: best records per game and
// the per-session result history that feeds the progress charts.
type DB interface {
	Close() error
	Migrate() error
	GetBestRecord(gameID string) (*BestRecord, error)
	PutBestRecord(rec *BestRecord) error
	ListBestRecords() ([]BestRecord, error)
	SaveResult(res *SessionResult) error
	ListResults(gameID string, limit int) ([]SessionResult, error)
}

// BestRecord is the locally persisted best for one game. Nil fields mean
// "never set" — 0 can be a legitimate worst score, so absence is carried as
// NULL all the way to the database and never collapsed to a zero value.
type BestRecord struct {
	GameID          string           `json:"game_id"`
	BestScore       *int64           `json:"best_score,omitempty"`
	BestTimeSeconds *decimal.Decimal `json:"best_time_seconds,omitempty"`
	BestLevel       *int64           `json:"best_level,omitempty"`
	BestMoves       *int64           `json:"best_moves,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// SessionResult is one completed session, stored for the history views.
type SessionResult struct {
	ID          string          `json:"id"`
	GameID      string          `json:"game_id"`
	Score       int64           `json:"score"`
	TimeSeconds decimal.Decimal `json:"time_seconds"`
	Level       int64           `json:"level"`
	Rounds      int64           `json:"rounds"`
	Errors      int64           `json:"errors"`
	Moves       int64           `json:"moves"`
	NewRecord   bool            `json:"new_record"`
	CreatedAt   time.Time       `json:"created_at"`
}
