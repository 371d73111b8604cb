package scripting

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/neuromint/neuromint-go/internal/games"
)

// scriptGame mirrors the `game` object a script must declare. Field names
// follow the JSON wire names of games.Rules so authors see one vocabulary.
type scriptGame struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Mode        string   `json:"mode"`
	MetricLabel string   `json:"metric_label"`
	Alphabet    []string `json:"alphabet"`

	BaseLength int `json:"base_length"`
	LengthStep int `json:"length_step"`
	MaxLength  int `json:"max_length"`

	RevealBaseMs  int `json:"reveal_base_ms"`
	RevealStepMs  int `json:"reveal_step_ms"`
	RevealFloorMs int `json:"reveal_floor_ms"`

	NoAdjacentRepeat bool `json:"no_adjacent_repeat"`
	StimulusVisible  bool `json:"stimulus_visible"`

	ScoreBase     int  `json:"score_base"`
	ScalePerLevel bool `json:"scale_per_level"`

	Wrong     string `json:"wrong_policy"`
	MaxErrors int    `json:"max_errors"`

	RoundLimit  int `json:"round_limit"`
	MaxLevel    int `json:"max_level"`
	TimeLimitMs int `json:"time_limit_ms"`

	InputWindowMs int `json:"input_window_ms"`

	Record string `json:"record"`
}

// Compile runs a custom game script and builds the rules table it declares.
// Optional script functions length(level), reveal(level) and score(level)
// override the built-in curves; each call is bounded by the hook timeout,
// and a failing hook falls back to a safe value rather than stalling a
// session.
func Compile(source string) (games.Rules, *VM, error) {
	vm := NewVM()
	if err := vm.Execute(source); err != nil {
		return games.Rules{}, nil, err
	}

	raw := vm.runtime.Get("game")
	if raw == nil || goja.IsUndefined(raw) || goja.IsNull(raw) {
		return games.Rules{}, nil, fmt.Errorf("script did not declare a game object")
	}
	var sg scriptGame
	if err := vm.runtime.ExportTo(raw, &sg); err != nil {
		return games.Rules{}, nil, fmt.Errorf("invalid game object: %w", err)
	}

	rules, err := sg.toRules()
	if err != nil {
		return games.Rules{}, nil, err
	}

	if vm.hasFunc("length") {
		rules.LengthFn = func(level int) int {
			n, err := vm.callHook("length", level)
			if err != nil {
				return rules.BaseLength
			}
			return n
		}
	}
	if vm.hasFunc("reveal") {
		rules.RevealFn = func(level int) int {
			ms, err := vm.callHook("reveal", level)
			if err != nil {
				return rules.RevealBaseMs
			}
			return ms
		}
	}
	if vm.hasFunc("score") {
		rules.ScoreFn = func(level int) int {
			pts, err := vm.callHook("score", level)
			if err != nil {
				return rules.ScoreBase
			}
			return pts
		}
	}

	if err := rules.Validate(); err != nil {
		return games.Rules{}, nil, err
	}
	return rules, vm, nil
}

func (sg scriptGame) toRules() (games.Rules, error) {
	id := strings.TrimSpace(sg.ID)
	if id == "" {
		return games.Rules{}, fmt.Errorf("game object needs an id")
	}

	// Scripted games are limited to the echo-a-sequence shape; the other
	// modes need engine behavior a script cannot declare.
	if sg.Mode != "" && sg.Mode != string(games.ModeSequence) {
		return games.Rules{}, fmt.Errorf("scripted games support mode %q only, got %q", games.ModeSequence, sg.Mode)
	}

	wrong := games.WrongPolicy(sg.Wrong)
	if sg.Wrong == "" {
		wrong = games.WrongFail
	}
	record := games.RecordMetric(sg.Record)
	if sg.Record == "" {
		record = games.RecordScore
	}

	alphabet := make([]games.Token, len(sg.Alphabet))
	for i, s := range sg.Alphabet {
		alphabet[i] = games.Token(s)
	}

	name := sg.Name
	if name == "" {
		name = id
	}
	label := sg.MetricLabel
	if label == "" {
		label = "score"
	}

	return games.Rules{
		ID:          id,
		Name:        name,
		Mode:        games.ModeSequence,
		MetricLabel: label,

		Alphabet: alphabet,

		BaseLength: sg.BaseLength,
		LengthStep: sg.LengthStep,
		MaxLength:  sg.MaxLength,

		RevealBaseMs:  sg.RevealBaseMs,
		RevealStepMs:  sg.RevealStepMs,
		RevealFloorMs: sg.RevealFloorMs,

		NoAdjacentRepeat: sg.NoAdjacentRepeat,
		StimulusVisible:  sg.StimulusVisible,

		ScoreBase:     sg.ScoreBase,
		ScalePerLevel: sg.ScalePerLevel,

		Wrong:     wrong,
		MaxErrors: sg.MaxErrors,

		RoundLimit:  sg.RoundLimit,
		MaxLevel:    sg.MaxLevel,
		TimeLimitMs: sg.TimeLimitMs,

		InputWindowMs: sg.InputWindowMs,

		Record: record,
	}, nil
}
