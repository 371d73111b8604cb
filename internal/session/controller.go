package session

import (
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neuromint/neuromint-go/internal/engine"
	"github.com/neuromint/neuromint-go/internal/games"
	"github.com/neuromint/neuromint-go/internal/store"
)

// interRoundPauseMs is the success interstitial between sequence rounds.
const interRoundPauseMs = 1000

// unflipDelayMs is how long a mismatched card pair stays face up.
const unflipDelayMs = 1000

// Options configures a Controller. Zero values fall back to an
// entropy-seeded stream, the system clock, and no persistence.
type Options struct {
	Stream  *engine.Stream
	Clock   engine.Clock
	Records RecordStore
	// Diag, when set, receives invalid-transition and persistence
	// diagnostics. Nil disables diagnostics entirely.
	Diag *log.Logger
}

// Controller owns one game session: the phase machine, the live round
// state, and the best-record exchange at completion. It processes exactly
// one event at a time — ticks and input events are serialized behind a
// mutex, and each transition completes before the next event is accepted.
type Controller struct {
	mu      sync.Mutex
	rules   games.Rules
	gen     generator
	clock   engine.Clock
	records RecordStore
	diag    *log.Logger

	listeners []func(Event)
	pending   []Event

	phase      Phase
	level      int
	score      int
	round      int
	errorCount int
	moves      int

	stimulus  []games.Token
	response  []games.Token
	credited  map[games.Token]bool
	matched   map[int]bool
	flipped   []int
	highlight int

	attempts   []int64
	streak     int
	bestStreak int

	goAt         time.Time
	startedAt    time.Time
	sessionEndAt time.Time
	timers       timerSet

	best        *store.BestRecord
	recordsDown bool
	warning     string

	finalScore int
	finalTime  decimal.Decimal
	newRecord  bool
}

// New creates a controller for a game in the Idle phase.
func New(rules games.Rules, opts Options) *Controller {
	stream := opts.Stream
	if stream == nil {
		stream = engine.NewEntropyStream()
	}
	clock := opts.Clock
	if clock == nil {
		clock = engine.SystemClock{}
	}
	return &Controller{
		rules:     rules,
		gen:       generator{rng: stream},
		clock:     clock,
		records:   opts.Records,
		diag:      opts.Diag,
		phase:     PhaseIdle,
		highlight: -1,
	}
}

// Rules returns the rules table this session runs against.
func (c *Controller) Rules() games.Rules {
	return c.rules
}

// Subscribe registers an event listener. Events are dispatched outside the
// session lock, in the order they occurred.
func (c *Controller) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Start begins a new session at level 1. Calling it mid-session discards
// the in-flight session: every pending timer is canceled, not merely
// ignored, so nothing stale can fire into the new session's state.
func (c *Controller) Start() {
	c.run(func(now time.Time) {
		c.startLocked(now)
	})
}

// Reset discards the session and returns to Idle. Nothing is persisted.
func (c *Controller) Reset() {
	c.run(func(now time.Time) {
		c.timers.cancelAll()
		c.resetStateLocked()
		c.setPhase(PhaseIdle)
	})
}

// SubmitInput feeds one response token into the session. Outside an input
// window it is a no-op (and never panics); a reaction-game click during the
// waiting phase counts as a false start.
func (c *Controller) SubmitInput(tok games.Token) {
	c.run(func(now time.Time) {
		c.fireDueLocked(now)

		switch c.phase {
		case PhaseAwaitingInput:
			c.handleInputLocked(now, tok)
		case PhasePresenting:
			if c.rules.Mode == games.ModeReaction {
				c.falseStartLocked(now)
				return
			}
			c.diagf("input %q ignored in phase %s", tok, c.phase)
		default:
			c.diagf("input %q ignored in phase %s", tok, c.phase)
		}
	})
}

// Tick advances session time. Deadlines are level-triggered on "passed", so
// however late a tick arrives no transition is skipped. Callers should tick
// at least every 100ms while a session is active, or schedule the next call
// from NextDeadline.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	c.fireDueLocked(now)
	evs := c.takePendingLocked()
	ls := c.listeners
	c.mu.Unlock()
	dispatch(ls, evs)
}

// NextDeadline returns the earliest pending timer deadline, or the zero
// time when nothing is scheduled. Presentation layers that prefer scheduled
// callbacks over periodic ticks can use it to time the next Tick.
func (c *Controller) NextDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers.next()
}

// run executes fn under the session lock, then dispatches any events it
// produced after the lock is released.
func (c *Controller) run(fn func(now time.Time)) {
	c.mu.Lock()
	fn(c.clock.Now())
	evs := c.takePendingLocked()
	ls := c.listeners
	c.mu.Unlock()
	dispatch(ls, evs)
}

func dispatch(listeners []func(Event), evs []Event) {
	for _, ev := range evs {
		for _, l := range listeners {
			l(ev)
		}
	}
}

func (c *Controller) takePendingLocked() []Event {
	evs := c.pending
	c.pending = nil
	return evs
}

func (c *Controller) emit(t EventType) {
	c.pending = append(c.pending, Event{
		Type:   t,
		GameID: c.rules.ID,
		Phase:  c.phase,
		Level:  c.level,
		Score:  c.score,
		Round:  c.round,
	})
}

func (c *Controller) emitFailed(reason string) {
	c.emit(EventRoundFailed)
	c.pending[len(c.pending)-1].Reason = reason
}

func (c *Controller) setPhase(p Phase) {
	if c.phase == p {
		return
	}
	if c.phase == PhaseAwaitingInput {
		// Leaving the input window cancels its time's-up timer; a stale one
		// firing into the next round is the defect class this guards.
		c.timers.cancel(timerInputDeadline)
	}
	c.phase = p
	c.emit(EventPhaseChanged)
}

func (c *Controller) diagf(format string, args ...any) {
	if c.diag != nil {
		c.diag.Printf("[%s] "+format, append([]any{c.rules.ID}, args...)...)
	}
}

func (c *Controller) resetStateLocked() {
	c.level = 1
	c.score = 0
	c.round = 0
	c.errorCount = 0
	c.moves = 0
	c.stimulus = nil
	c.response = nil
	c.credited = nil
	c.matched = nil
	c.flipped = nil
	c.highlight = -1
	c.attempts = nil
	c.streak = 0
	c.bestStreak = 0
	c.goAt = time.Time{}
	c.startedAt = time.Time{}
	c.sessionEndAt = time.Time{}
	c.warning = ""
	c.recordsDown = false
	c.best = nil
	c.finalScore = 0
	c.finalTime = decimal.Zero
	c.newRecord = false
}

func (c *Controller) startLocked(now time.Time) {
	c.timers.cancelAll()
	c.resetStateLocked()
	c.setPhase(PhaseIdle)

	if c.records != nil {
		best, err := c.records.GetBestRecord(c.rules.ID)
		if err != nil {
			// The improvement check is skipped, not failed: a transient store
			// outage must never silently discard a real record.
			c.recordsDown = true
			c.warning = "best scores unavailable; this session will not be recorded"
			c.diagf("best record read failed: %v", err)
		} else {
			c.best = best
		}
	}

	c.startedAt = now
	if c.rules.TimeLimitMs > 0 {
		c.sessionEndAt = now.Add(time.Duration(c.rules.TimeLimitMs) * time.Millisecond)
		c.timers.schedule(timerSessionEnd, c.sessionEndAt)
	}
	c.beginRoundLocked(now)
}

// beginRoundLocked generates the round's stimulus and enters Presenting.
func (c *Controller) beginRoundLocked(now time.Time) {
	c.response = nil
	c.highlight = -1

	switch c.rules.Mode {
	case games.ModeSequence:
		if c.rules.Permutation {
			c.stimulus = c.gen.permutation(c.rules.Alphabet)
		} else {
			c.stimulus = c.gen.sequence(c.rules, c.level)
		}
		c.setPhase(PhasePresenting)
		reveal := c.rules.RevealIntervalMs(c.level)
		if reveal <= 0 {
			c.enterAwaitingLocked(now)
			return
		}
		c.highlight = 0
		c.timers.schedule(timerHighlight, now.Add(time.Duration(reveal)*time.Millisecond))

	case games.ModeRecall:
		c.stimulus = c.gen.recallWords(c.rules, c.level)
		c.credited = make(map[games.Token]bool, len(c.stimulus))
		c.setPhase(PhasePresenting)
		memorize := c.rules.RevealIntervalMs(c.level)
		c.timers.schedule(timerReveal, now.Add(time.Duration(memorize)*time.Millisecond))

	case games.ModeBatch:
		if c.rules.InterferencePair {
			c.stimulus = c.gen.interferencePair(c.rules.Alphabet)
		} else {
			c.stimulus = []games.Token{c.rules.Alphabet[c.gen.rng.Intn(len(c.rules.Alphabet))]}
		}
		c.setPhase(PhasePresenting)
		if c.rules.MaxDelayMs > 0 {
			delay := c.gen.rng.IntRange(c.rules.MinDelayMs, c.rules.MaxDelayMs)
			c.timers.schedule(timerReveal, now.Add(time.Duration(delay)*time.Millisecond))
			return
		}
		c.enterAwaitingLocked(now)

	case games.ModeReaction:
		c.stimulus = []games.Token{c.rules.Alphabet[0]}
		c.setPhase(PhasePresenting)
		delay := c.gen.rng.IntRange(c.rules.MinDelayMs, c.rules.MaxDelayMs)
		c.timers.schedule(timerReveal, now.Add(time.Duration(delay)*time.Millisecond))

	case games.ModeMatch:
		c.stimulus = c.gen.pairLayout(c.rules.Alphabet, c.rules.PairCount)
		c.matched = make(map[int]bool, len(c.stimulus))
		c.flipped = nil
		c.setPhase(PhasePresenting)
		c.enterAwaitingLocked(now)
	}
}

// enterAwaitingLocked opens the response window at a given instant. The
// instant is the scheduled reveal time, not the tick time, so reaction
// latency is not inflated by a late tick.
func (c *Controller) enterAwaitingLocked(at time.Time) {
	c.setPhase(PhaseAwaitingInput)
	c.goAt = at
	if c.rules.InputWindowMs > 0 {
		c.timers.schedule(timerInputDeadline, at.Add(time.Duration(c.rules.InputWindowMs)*time.Millisecond))
	}
}

// fireDueLocked processes every deadline that has passed, earliest first.
// Handlers may schedule new timers; the loop re-checks until nothing due
// remains.
func (c *Controller) fireDueLocked(now time.Time) {
	for {
		t, ok := c.timers.due(now)
		if !ok {
			return
		}
		switch t.kind {
		case timerHighlight:
			c.advanceHighlightLocked(t.at)
		case timerReveal:
			c.enterAwaitingLocked(t.at)
		case timerInputDeadline:
			c.inputTimeoutLocked(t.at)
		case timerNextRound:
			c.nextRoundTimerLocked(t.at)
		case timerSessionEnd:
			c.completeLocked(t.at)
		}
	}
}

func (c *Controller) advanceHighlightLocked(at time.Time) {
	if c.phase != PhasePresenting {
		return
	}
	c.highlight++
	if c.highlight >= len(c.stimulus) {
		c.highlight = -1
		c.enterAwaitingLocked(at)
		return
	}
	reveal := c.rules.RevealIntervalMs(c.level)
	c.timers.schedule(timerHighlight, at.Add(time.Duration(reveal)*time.Millisecond))
}

// inputTimeoutLocked handles an expired response window, which is treated
// identically to an incorrect final response.
func (c *Controller) inputTimeoutLocked(at time.Time) {
	if c.phase != PhaseAwaitingInput {
		return
	}
	c.emitFailed(ReasonTimeout)
	if c.rules.Wrong == games.WrongFail {
		c.completeLocked(at)
		return
	}
	c.errorCount++
	c.round++
	c.setPhase(PhaseEvaluating)
	if c.rules.RoundLimit > 0 && c.round >= c.rules.RoundLimit {
		c.completeLocked(at)
		return
	}
	c.beginRoundLocked(at)
}

func (c *Controller) nextRoundTimerLocked(at time.Time) {
	switch {
	case c.rules.Mode == games.ModeMatch && c.phase == PhaseAwaitingInput:
		// Mismatched pair turns back face down.
		c.flipped = nil
	case c.phase == PhaseEvaluating:
		c.beginRoundLocked(at)
	}
}

func (c *Controller) falseStartLocked(now time.Time) {
	c.errorCount++
	c.emitFailed(ReasonTooEarly)
	c.timers.cancel(timerReveal)
	delay := c.gen.rng.IntRange(c.rules.MinDelayMs, c.rules.MaxDelayMs)
	c.timers.schedule(timerReveal, now.Add(time.Duration(delay)*time.Millisecond))
}

func (c *Controller) handleInputLocked(now time.Time, tok games.Token) {
	switch c.rules.Mode {
	case games.ModeSequence:
		c.sequenceInputLocked(now, tok)
	case games.ModeRecall:
		c.recallInputLocked(now, tok)
	case games.ModeBatch:
		c.batchInputLocked(now, tok)
	case games.ModeReaction:
		c.reactionInputLocked(now, tok)
	case games.ModeMatch:
		c.matchInputLocked(now, tok)
	}
}

// expectedSequence is what the response must echo: the stimulus itself, or
// for permutation boards the alphabet's declared (ascending) order.
func (c *Controller) expectedSequence() []games.Token {
	if c.rules.Permutation {
		return c.rules.Alphabet
	}
	return c.stimulus
}

func (c *Controller) sequenceInputLocked(now time.Time, tok games.Token) {
	expected := c.expectedSequence()
	cand := append(append([]games.Token(nil), c.response...), tok)
	ev := Evaluate(expected, cand)
	if !ev.PrefixMatches {
		idx := MismatchIndex(expected, cand)
		switch c.rules.Wrong {
		case games.WrongIgnore:
			c.diagf("wrong token %q at %d ignored", tok, idx)
		case games.WrongTolerate:
			c.errorCount++
			if c.rules.MaxErrors > 0 && c.errorCount >= c.rules.MaxErrors {
				c.emitFailed(ReasonMismatch)
				c.completeLocked(now)
			}
		default:
			c.emitFailed(ReasonMismatch)
			c.completeLocked(now)
		}
		return
	}
	c.response = cand
	if ev.Correct {
		c.roundSucceededLocked(now)
	}
}

func (c *Controller) recallInputLocked(now time.Time, tok games.Token) {
	word := games.Token(strings.ToLower(strings.TrimSpace(string(tok))))
	if word == "" {
		return
	}
	found := false
	for _, w := range c.stimulus {
		if games.Token(strings.ToLower(string(w))) == word {
			found = true
			break
		}
	}
	if !found {
		c.errorCount++
		return
	}
	if c.credited[word] {
		return
	}
	c.credited[word] = true
	c.response = append(c.response, word)
	c.score += c.rules.RoundScore(c.level)
	if len(c.credited) == len(c.stimulus) {
		c.roundSucceededLocked(now)
	}
}

func (c *Controller) batchInputLocked(now time.Time, tok games.Token) {
	answer := c.stimulus[0]
	if c.rules.InterferencePair {
		answer = c.stimulus[1] // the ink color, not the word
	}
	c.round++
	if tok == answer {
		c.score += c.rules.RoundScore(c.level)
		c.streak++
		if c.streak > c.bestStreak {
			c.bestStreak = c.streak
		}
		c.emit(EventRoundSucceeded)
	} else {
		c.errorCount++
		c.streak = 0
		c.emitFailed(ReasonMismatch)
	}
	c.setPhase(PhaseEvaluating)
	if c.rules.RoundLimit > 0 && c.round >= c.rules.RoundLimit {
		c.completeLocked(now)
		return
	}
	c.beginRoundLocked(now)
}

func (c *Controller) reactionInputLocked(now time.Time, tok games.Token) {
	rt := now.Sub(c.goAt).Milliseconds()
	if rt < 0 {
		rt = 0
	}
	c.attempts = append(c.attempts, rt)
	c.round++
	c.score += c.rules.RoundScore(c.level)
	c.emit(EventRoundSucceeded)
	c.setPhase(PhaseEvaluating)
	if c.rules.RoundLimit > 0 && c.round >= c.rules.RoundLimit {
		c.completeLocked(now)
		return
	}
	c.beginRoundLocked(now)
}

func (c *Controller) matchInputLocked(now time.Time, tok games.Token) {
	if len(c.flipped) >= 2 {
		c.diagf("flip %q ignored while pair resolves", tok)
		return
	}
	idx, err := strconv.Atoi(string(tok))
	if err != nil || idx < 0 || idx >= len(c.stimulus) {
		c.diagf("invalid card %q ignored", tok)
		return
	}
	if c.matched[idx] {
		c.diagf("card %d already matched, ignored", idx)
		return
	}
	for _, f := range c.flipped {
		if f == idx {
			c.diagf("card %d already face up, ignored", idx)
			return
		}
	}
	c.flipped = append(c.flipped, idx)
	if len(c.flipped) < 2 {
		return
	}
	c.moves++
	a, b := c.flipped[0], c.flipped[1]
	if c.stimulus[a] == c.stimulus[b] {
		c.matched[a] = true
		c.matched[b] = true
		c.flipped = nil
		c.emit(EventRoundSucceeded)
		if len(c.matched) == len(c.stimulus) {
			c.completeLocked(now)
		}
		return
	}
	c.errorCount++
	c.emitFailed(ReasonMismatch)
	c.timers.schedule(timerNextRound, now.Add(unflipDelayMs*time.Millisecond))
}

// roundSucceededLocked closes a successful sequence/recall round: award the
// round score, then either advance a level after a short pause or finish
// the session when the level cap is reached.
func (c *Controller) roundSucceededLocked(now time.Time) {
	if c.rules.Mode != games.ModeRecall {
		// Recall scores per word as it arrives, not per round.
		c.score += c.rules.RoundScore(c.level)
	}
	c.round++
	c.emit(EventRoundSucceeded)
	if c.rules.MaxLevel > 0 && c.level >= c.rules.MaxLevel {
		c.completeLocked(now)
		return
	}
	c.level++
	c.setPhase(PhaseEvaluating)
	c.timers.schedule(timerNextRound, now.Add(interRoundPauseMs*time.Millisecond))
}

// completeLocked ends the session: freeze the final metrics, exchange them
// against the best record, persist the result, and enter Complete. Store
// failures downgrade to a warning; the session still completes normally.
func (c *Controller) completeLocked(now time.Time) {
	if c.phase == PhaseComplete {
		return
	}
	c.timers.cancelAll()

	c.finalScore = c.score
	c.finalTime = c.sessionTime(now)
	// Complete is only entered through Evaluating, even when the session
	// countdown runs out mid-presentation (a spawn delay straddling the
	// limit) or mid-input.
	if c.phase != PhaseEvaluating {
		c.setPhase(PhaseEvaluating)
	}
	c.setPhase(PhaseComplete)

	out := outcome{
		score:       int64(c.finalScore),
		timeSeconds: c.finalTime,
		level:       int64(c.level),
		moves:       int64(c.moves),
		hasMoves:    c.rules.Mode == games.ModeMatch,
	}

	if c.records != nil && !c.recordsDown {
		merged, improved := improveRecord(c.rules, c.best, out)
		if improved {
			c.newRecord = true
			if err := c.records.PutBestRecord(merged); err != nil {
				c.warning = "best score could not be saved"
				c.diagf("best record write failed: %v", err)
			} else {
				c.best = merged
			}
		}
		res := &store.SessionResult{
			GameID:      c.rules.ID,
			Score:       int64(c.finalScore),
			TimeSeconds: c.finalTime,
			Level:       int64(c.level),
			Rounds:      int64(c.round),
			Errors:      int64(c.errorCount),
			Moves:       int64(c.moves),
			NewRecord:   c.newRecord,
		}
		if err := c.records.SaveResult(res); err != nil {
			if c.warning == "" {
				c.warning = "session result could not be saved"
			}
			c.diagf("result write failed: %v", err)
		}
	}

	c.emit(EventSessionComplete)
	ev := &c.pending[len(c.pending)-1]
	ev.FinalScore = c.finalScore
	ev.FinalTimeSeconds = c.finalTime
	ev.NewRecord = c.newRecord
}

// sessionTime is the completed session's time metric: mean reaction latency
// for reaction games, wall-clock elapsed time otherwise.
func (c *Controller) sessionTime(now time.Time) decimal.Decimal {
	if c.rules.Mode == games.ModeReaction && len(c.attempts) > 0 {
		var sum int64
		for _, rt := range c.attempts {
			sum += rt
		}
		avgMs := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(c.attempts))))
		return avgMs.Div(decimal.NewFromInt(1000)).Round(3)
	}
	if c.startedAt.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(now.Sub(c.startedAt).Seconds()).Round(2)
}
