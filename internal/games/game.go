package games

import (
	"fmt"
	"sort"
	"sync"
)

// Token is a single symbolic unit within a stimulus or response: a color
// name, a word, a digit, a card index. The engine never interprets tokens
// beyond equality; rendering them is the presentation layer's concern.
type Token string

// Mode selects which round shape the session controller runs for a game.
type Mode string

const (
	// ModeSequence presents an ordered token sequence and expects it echoed
	// back in order (memory_sequence, pattern_recall, number_order).
	ModeSequence Mode = "sequence"

	// ModeRecall presents a token batch for a fixed memorize window and
	// accepts the tokens back in any order (word_memory).
	ModeRecall Mode = "recall"

	// ModeBatch runs discrete prompt/answer rounds under a session countdown
	// (color_stroop, sort_it_fast).
	ModeBatch Mode = "batch"

	// ModeReaction hides the stimulus behind a random delay and measures the
	// response latency (simple_reaction, speed_tap).
	ModeReaction Mode = "reaction"

	// ModeMatch deals a shuffled pair board and accepts two-card flips until
	// every pair is found (match_flip).
	ModeMatch Mode = "match"
)

// WrongPolicy decides what a mismatched response token does to the session.
type WrongPolicy string

const (
	WrongFail     WrongPolicy = "fail"     // first mismatch ends the session
	WrongIgnore   WrongPolicy = "ignore"   // mismatched input is dropped silently
	WrongTolerate WrongPolicy = "tolerate" // mismatch counts an error, play continues
)

// RecordMetric names which session metric the best record tracks, and in
// which direction it improves.
type RecordMetric string

const (
	RecordScore RecordMetric = "score" // higher is better
	RecordTime  RecordMetric = "time"  // lower is better
	RecordLevel RecordMetric = "level" // higher is better
)

// Rules is the per-game parameter table the session engine runs against.
// Six near-identical page implementations on the site collapse into one
// controller plus one of these per game.
type Rules struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Mode        Mode   `json:"mode"`
	MetricLabel string `json:"metric_label"`

	// Alphabet is the token set stimuli draw from. For ModeRecall the
	// per-level word lists in WordLevels are used instead.
	Alphabet   []Token   `json:"alphabet,omitempty"`
	WordLevels [][]Token `json:"word_levels,omitempty"`

	// Sequence length curve: BaseLength + (level-1)/LengthStep, capped at
	// MaxLength. LengthStep <= 0 pins the length at BaseLength.
	BaseLength int `json:"base_length,omitempty"`
	LengthStep int `json:"length_step,omitempty"`
	MaxLength  int `json:"max_length,omitempty"`

	// Reveal pacing: RevealBaseMs - level*RevealStepMs, floored at
	// RevealFloorMs. Zero base means no presenting window at all.
	RevealBaseMs  int `json:"reveal_base_ms,omitempty"`
	RevealStepMs  int `json:"reveal_step_ms,omitempty"`
	RevealFloorMs int `json:"reveal_floor_ms,omitempty"`

	// Scripted games override the curves with compiled hooks.
	LengthFn func(level int) int `json:"-"`
	RevealFn func(level int) int `json:"-"`
	ScoreFn  func(level int) int `json:"-"`

	// Permutation makes the stimulus a shuffle of the whole alphabet and the
	// expected response the alphabet's declared order (number_order) or, in
	// ModeMatch, a shuffled pair layout.
	Permutation bool `json:"permutation,omitempty"`

	// StimulusVisible keeps the stimulus in the snapshot during input
	// instead of blanking it after the reveal window.
	StimulusVisible bool `json:"stimulus_visible,omitempty"`

	// NoAdjacentRepeat forbids the same token twice in a row within one
	// stimulus, enforced by bounded resampling.
	NoAdjacentRepeat bool `json:"no_adjacent_repeat,omitempty"`

	// InterferencePair generates two draws per prompt (word, ink color);
	// the correct answer is the second (color_stroop).
	InterferencePair bool `json:"interference_pair,omitempty"`

	ScoreBase     int  `json:"score_base,omitempty"`
	ScalePerLevel bool `json:"scale_per_level,omitempty"`

	Wrong     WrongPolicy `json:"wrong_policy"`
	MaxErrors int         `json:"max_errors,omitempty"` // WrongTolerate only; 0 = unlimited

	RoundLimit  int `json:"round_limit,omitempty"`   // rounds/attempts per session; 0 = unlimited
	MaxLevel    int `json:"max_level,omitempty"`     // session completes past this level; 0 = unlimited
	TimeLimitMs int `json:"time_limit_ms,omitempty"` // session countdown; 0 = none

	// InputWindowMs bounds each response window; 0 leaves it open.
	InputWindowMs int `json:"input_window_ms,omitempty"`

	// Random pre-stimulus delay for reaction and spawn-paced batch games.
	MinDelayMs int `json:"min_delay_ms,omitempty"`
	MaxDelayMs int `json:"max_delay_ms,omitempty"`

	PairCount int `json:"pair_count,omitempty"` // ModeMatch

	Record RecordMetric `json:"record"`
}

// SequenceLength returns the stimulus length for a level, honoring the
// configured cap.
func (r Rules) SequenceLength(level int) int {
	if level < 1 {
		level = 1
	}
	if r.LengthFn != nil {
		n := r.LengthFn(level)
		if r.MaxLength > 0 && n > r.MaxLength {
			n = r.MaxLength
		}
		if n < 1 {
			n = 1
		}
		return n
	}
	n := r.BaseLength
	if r.LengthStep > 0 {
		n += (level - 1) / r.LengthStep
	}
	if r.MaxLength > 0 && n > r.MaxLength {
		n = r.MaxLength
	}
	if n < 1 {
		n = 1
	}
	return n
}

// RevealIntervalMs returns the per-token reveal interval for a level,
// shrinking with level but never below the configured floor.
func (r Rules) RevealIntervalMs(level int) int {
	if level < 1 {
		level = 1
	}
	if r.RevealFn != nil {
		ms := r.RevealFn(level)
		if ms < r.RevealFloorMs {
			ms = r.RevealFloorMs
		}
		if ms < 0 {
			ms = 0
		}
		return ms
	}
	ms := r.RevealBaseMs - level*r.RevealStepMs
	if ms < r.RevealFloorMs {
		ms = r.RevealFloorMs
	}
	if ms < 0 {
		ms = 0
	}
	return ms
}

// RoundScore returns the points awarded for a successful round at a level.
func (r Rules) RoundScore(level int) int {
	if level < 1 {
		level = 1
	}
	if r.ScoreFn != nil {
		pts := r.ScoreFn(level)
		if pts < 0 {
			pts = 0
		}
		return pts
	}
	if r.ScalePerLevel {
		return r.ScoreBase * level
	}
	return r.ScoreBase
}

// Validate checks a rules table for the invariants the controller assumes.
func (r Rules) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rules: missing id")
	}
	switch r.Mode {
	case ModeSequence, ModeBatch, ModeReaction:
		if len(r.Alphabet) == 0 {
			return fmt.Errorf("rules %q: mode %s requires an alphabet", r.ID, r.Mode)
		}
	case ModeRecall:
		if len(r.WordLevels) == 0 {
			return fmt.Errorf("rules %q: recall mode requires word levels", r.ID)
		}
	case ModeMatch:
		if r.PairCount < 2 {
			return fmt.Errorf("rules %q: match mode requires at least 2 pairs", r.ID)
		}
		if len(r.Alphabet) < r.PairCount {
			return fmt.Errorf("rules %q: alphabet smaller than pair count", r.ID)
		}
	default:
		return fmt.Errorf("rules %q: unknown mode %q", r.ID, r.Mode)
	}
	switch r.Wrong {
	case WrongFail, WrongIgnore, WrongTolerate:
	default:
		return fmt.Errorf("rules %q: unknown wrong policy %q", r.ID, r.Wrong)
	}
	switch r.Record {
	case RecordScore, RecordTime, RecordLevel:
	default:
		return fmt.Errorf("rules %q: unknown record metric %q", r.ID, r.Record)
	}
	if r.MinDelayMs > r.MaxDelayMs {
		return fmt.Errorf("rules %q: min delay %dms exceeds max delay %dms", r.ID, r.MinDelayMs, r.MaxDelayMs)
	}
	return nil
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Rules)
)

// Register adds a rules table to the registry. Registering an already-known
// id is an error; custom scripted games must pick fresh ids.
func Register(r Rules) error {
	if err := r.Validate(); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[r.ID]; exists {
		return fmt.Errorf("game %q already registered", r.ID)
	}
	registry[r.ID] = r
	return nil
}

// Get retrieves a game's rules by id.
func Get(id string) (Rules, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[id]
	return r, ok
}

// List returns all registered rules sorted by id.
func List() []Rules {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Rules, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func mustRegister(r Rules) {
	if err := Register(r); err != nil {
		panic(err)
	}
}

// init registers the built-in catalogue.
func init() {
	mustRegister(memorySequenceRules())
	mustRegister(patternRecallRules())
	mustRegister(wordMemoryRules())
	mustRegister(colorStroopRules())
	mustRegister(numberOrderRules())
	mustRegister(simpleReactionRules())
	mustRegister(speedTapRules())
	mustRegister(sortItFastRules())
	mustRegister(matchFlipRules())
}
