package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/neuromint/neuromint-go/internal/games"
	"github.com/neuromint/neuromint-go/internal/store"
)

// RecordStore is the slice of persistence the controller needs. store.DB
// satisfies it; tests substitute fakes.
type RecordStore interface {
	GetBestRecord(gameID string) (*store.BestRecord, error)
	PutBestRecord(rec *store.BestRecord) error
	SaveResult(res *store.SessionResult) error
}

// outcome carries the final metrics of a completed session.
type outcome struct {
	score       int64
	timeSeconds decimal.Decimal
	level       int64
	moves       int64
	hasMoves    bool
}

// improveRecord merges a session outcome into the existing best record.
// A field is only overwritten when the new value strictly improves it:
// higher score, higher level, lower time, fewer moves. Returns the merged
// record and whether anything improved; the caller persists only on
// improvement.
func improveRecord(rules games.Rules, existing *store.BestRecord, out outcome) (*store.BestRecord, bool) {
	merged := store.BestRecord{GameID: rules.ID}
	if existing != nil {
		merged = *existing
	}
	improved := false

	higherInt := func(cur **int64, val int64) {
		if *cur == nil || val > **cur {
			v := val
			*cur = &v
			improved = true
		}
	}
	lowerInt := func(cur **int64, val int64) {
		if *cur == nil || val < **cur {
			v := val
			*cur = &v
			improved = true
		}
	}

	switch rules.Record {
	case games.RecordScore:
		higherInt(&merged.BestScore, out.score)
		higherInt(&merged.BestLevel, out.level)
	case games.RecordLevel:
		higherInt(&merged.BestLevel, out.level)
	case games.RecordTime:
		if merged.BestTimeSeconds == nil || out.timeSeconds.LessThan(*merged.BestTimeSeconds) {
			t := out.timeSeconds
			merged.BestTimeSeconds = &t
			improved = true
		}
		if out.hasMoves {
			lowerInt(&merged.BestMoves, out.moves)
		}
	}

	if improved {
		merged.UpdatedAt = time.Now().UTC()
	}
	return &merged, improved
}
