package session

import (
	"github.com/shopspring/decimal"

	"github.com/neuromint/neuromint-go/internal/games"
)

// Card is one board position in a pair-matching game, as a client sees it:
// face-down cards carry no symbol.
type Card struct {
	Index   int         `json:"index"`
	FaceUp  bool        `json:"face_up"`
	Matched bool        `json:"matched"`
	Symbol  games.Token `json:"symbol,omitempty"`
}

// SessionStats summarizes a completed session for the results screen.
type SessionStats struct {
	Rounds      int     `json:"rounds"`
	Errors      int     `json:"errors"`
	AccuracyPct float64 `json:"accuracy_pct"`
	Moves       int     `json:"moves,omitempty"`
	// Reaction games only: per-attempt latencies in milliseconds.
	AttemptsMs    []int64 `json:"attempts_ms,omitempty"`
	BestAttemptMs int64   `json:"best_attempt_ms,omitempty"`
	WorstAttemptMs int64  `json:"worst_attempt_ms,omitempty"`
}

// Snapshot is a read-only view of a session, safe to serialize. Stimulus
// content is masked while the player is supposed to answer from memory.
type Snapshot struct {
	GameID     string `json:"game_id"`
	Phase      Phase  `json:"phase"`
	Level      int    `json:"level"`
	Score      int    `json:"score"`
	Round      int    `json:"round"`
	ErrorCount int    `json:"error_count"`
	Moves      int    `json:"moves,omitempty"`
	Streak     int    `json:"streak,omitempty"`
	BestStreak int    `json:"best_streak,omitempty"`

	// Stimulus is the visible stimulus for the current phase, nil when the
	// player must answer from memory.
	Stimulus []games.Token `json:"stimulus,omitempty"`
	// Highlight is the index being played back during sequence
	// presentation, -1 otherwise.
	Highlight int `json:"highlight"`
	// Response is the accepted input so far this round.
	Response []games.Token `json:"response,omitempty"`
	// Board is the card layout for pair-matching games.
	Board []Card `json:"board,omitempty"`

	// TimeLeftMs is the session countdown remainder, -1 without a limit.
	TimeLeftMs int64 `json:"time_left_ms"`

	Warning string `json:"warning,omitempty"`

	// Populated once Phase is complete.
	FinalScore       int             `json:"final_score,omitempty"`
	FinalTimeSeconds decimal.Decimal `json:"final_time_seconds,omitempty"`
	NewRecord        bool            `json:"new_record,omitempty"`
	Stats            *SessionStats   `json:"stats,omitempty"`
}

// Snapshot captures the session's current visible state. It never advances
// the phase machine; pair it with Tick when deadlines may have passed.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	s := Snapshot{
		GameID:     c.rules.ID,
		Phase:      c.phase,
		Level:      c.level,
		Score:      c.score,
		Round:      c.round,
		ErrorCount: c.errorCount,
		Moves:      c.moves,
		Streak:     c.streak,
		BestStreak: c.bestStreak,
		Highlight:  c.highlight,
		Response:   append([]games.Token(nil), c.response...),
		TimeLeftMs: -1,
	}
	if !c.sessionEndAt.IsZero() && c.phase != PhaseComplete {
		left := c.sessionEndAt.Sub(now).Milliseconds()
		if left < 0 {
			left = 0
		}
		s.TimeLeftMs = left
	}
	if c.rules.Mode == games.ModeMatch {
		s.Board = c.boardLocked()
	} else {
		s.Stimulus = c.visibleStimulusLocked()
	}
	s.Warning = c.warning
	if c.phase == PhaseComplete {
		s.FinalScore = c.finalScore
		s.FinalTimeSeconds = c.finalTime
		s.NewRecord = c.newRecord
		s.Stats = c.statsLocked()
	}
	return s
}

func (c *Controller) statsLocked() *SessionStats {
	st := &SessionStats{
		Rounds: c.round,
		Errors: c.errorCount,
		Moves:  c.moves,
	}
	// Batch rounds count wrong answers inside the round total; elsewhere an
	// error is an extra attempt on top of the completed rounds.
	correct, total := c.round, c.round+c.errorCount
	if c.rules.Mode == games.ModeBatch {
		correct, total = c.round-c.errorCount, c.round
	}
	if correct < 0 {
		correct = 0
	}
	if total > 0 {
		st.AccuracyPct = 100 * float64(correct) / float64(total)
	} else {
		st.AccuracyPct = 100
	}
	if len(c.attempts) > 0 {
		st.AttemptsMs = append([]int64(nil), c.attempts...)
		st.BestAttemptMs, st.WorstAttemptMs = c.attempts[0], c.attempts[0]
		for _, rt := range c.attempts[1:] {
			if rt < st.BestAttemptMs {
				st.BestAttemptMs = rt
			}
			if rt > st.WorstAttemptMs {
				st.WorstAttemptMs = rt
			}
		}
	}
	return st
}

// visibleStimulusLocked applies the masking rules: memory games hide the
// stimulus once the input window opens, prompt games keep it on screen.
func (c *Controller) visibleStimulusLocked() []games.Token {
	show := func() []games.Token {
		return append([]games.Token(nil), c.stimulus...)
	}
	switch c.phase {
	case PhasePresenting:
		switch c.rules.Mode {
		case games.ModeReaction, games.ModeBatch:
			// Nothing on screen until the target spawns.
			return nil
		}
		return show()
	case PhaseAwaitingInput:
		switch c.rules.Mode {
		case games.ModeBatch, games.ModeReaction:
			return show()
		case games.ModeSequence:
			if c.rules.StimulusVisible {
				return show()
			}
		}
		return nil
	case PhaseComplete:
		return show()
	default:
		return nil
	}
}

func (c *Controller) boardLocked() []Card {
	board := make([]Card, len(c.stimulus))
	for i := range c.stimulus {
		card := Card{Index: i, Matched: c.matched[i]}
		for _, f := range c.flipped {
			if f == i {
				card.FaceUp = true
			}
		}
		if card.Matched || card.FaceUp || c.phase == PhaseComplete {
			card.Symbol = c.stimulus[i]
		}
		board[i] = card
	}
	return board
}
