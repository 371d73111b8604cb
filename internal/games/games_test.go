package games

import "testing"

func TestRegistryContainsCatalogue(t *testing.T) {
	ids := []string{
		"memory_sequence", "pattern_recall", "word_memory", "color_stroop",
		"number_order", "simple_reaction", "speed_tap", "sort_it_fast",
		"match_flip",
	}
	for _, id := range ids {
		r, ok := Get(id)
		if !ok {
			t.Errorf("game %q not registered", id)
			continue
		}
		if r.ID != id {
			t.Errorf("game %q has mismatched ID %q", id, r.ID)
		}
		if err := r.Validate(); err != nil {
			t.Errorf("game %q fails validation: %v", id, err)
		}
	}
}

func TestListIsSorted(t *testing.T) {
	all := List()
	if len(all) < 9 {
		t.Fatalf("List() returned %d games, want at least 9", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("List() not sorted: %q before %q", all[i-1].ID, all[i].ID)
		}
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := memorySequenceRules()
	if err := Register(r); err == nil {
		t.Error("Register accepted a duplicate game id")
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := Rules{ID: "broken", Mode: ModeSequence, Wrong: WrongFail, Record: RecordScore}
	if err := Register(r); err == nil {
		t.Error("Register accepted a sequence game without an alphabet")
	}
}

func TestMemorySequenceLengthCurve(t *testing.T) {
	r := memorySequenceRules()

	// min(3 + floor((level-1)/2), 10)
	cases := []struct {
		level, want int
	}{
		{1, 3}, {2, 3}, {3, 4}, {4, 4}, {5, 5}, {14, 9}, {15, 10}, {20, 10}, {50, 10},
	}
	for _, tc := range cases {
		if got := r.SequenceLength(tc.level); got != tc.want {
			t.Errorf("SequenceLength(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestSequenceLengthMonotonic(t *testing.T) {
	for _, r := range List() {
		prev := 0
		for level := 1; level <= 40; level++ {
			n := r.SequenceLength(level)
			if n < prev {
				t.Errorf("%s: SequenceLength decreased at level %d (%d -> %d)", r.ID, level, prev, n)
			}
			if r.MaxLength > 0 && n > r.MaxLength {
				t.Errorf("%s: SequenceLength(%d) = %d exceeds cap %d", r.ID, level, n, r.MaxLength)
			}
			prev = n
		}
	}
}

func TestPatternRecallRevealCurve(t *testing.T) {
	r := patternRecallRules()

	if got := r.RevealIntervalMs(1); got != 950 {
		t.Errorf("RevealIntervalMs(1) = %d, want 950", got)
	}
	if got := r.RevealIntervalMs(10); got != 500 {
		t.Errorf("RevealIntervalMs(10) = %d, want 500", got)
	}
	// Past level 16 the raw formula dips below the floor.
	if got := r.RevealIntervalMs(30); got != 200 {
		t.Errorf("RevealIntervalMs(30) = %d, want floor 200", got)
	}
}

func TestRevealNeverBelowFloor(t *testing.T) {
	for _, r := range List() {
		for level := 1; level <= 100; level++ {
			ms := r.RevealIntervalMs(level)
			if ms < r.RevealFloorMs {
				t.Errorf("%s: RevealIntervalMs(%d) = %d below floor %d", r.ID, level, ms, r.RevealFloorMs)
			}
			if ms < 0 {
				t.Errorf("%s: negative reveal interval at level %d", r.ID, level)
			}
		}
	}
}

func TestWordMemoryMemorizeWindowGrows(t *testing.T) {
	r := wordMemoryRules()
	prev := 0
	for level := 1; level <= 5; level++ {
		ms := r.RevealIntervalMs(level)
		if want := (3 + level) * 1000; ms != want {
			t.Errorf("RevealIntervalMs(%d) = %d, want %d", level, ms, want)
		}
		if ms <= prev {
			t.Errorf("memorize window did not grow at level %d", level)
		}
		prev = ms
	}
}

func TestRoundScore(t *testing.T) {
	seq := memorySequenceRules()
	if got := seq.RoundScore(1); got != 10 {
		t.Errorf("memory_sequence RoundScore(1) = %d, want 10", got)
	}
	if got := seq.RoundScore(7); got != 70 {
		t.Errorf("memory_sequence RoundScore(7) = %d, want 70", got)
	}

	stroop := colorStroopRules()
	if got := stroop.RoundScore(1); got != 10 {
		t.Errorf("color_stroop RoundScore(1) = %d, want 10", got)
	}
	// Batch scoring is flat regardless of level.
	if got := stroop.RoundScore(5); got != 10 {
		t.Errorf("color_stroop RoundScore(5) = %d, want 10", got)
	}

	tap := speedTapRules()
	if got := tap.RoundScore(3); got != 1 {
		t.Errorf("speed_tap RoundScore(3) = %d, want 1", got)
	}
}

func TestNumberOrderAlphabet(t *testing.T) {
	r := numberOrderRules()
	if len(r.Alphabet) != 20 {
		t.Fatalf("number_order alphabet has %d tokens, want 20", len(r.Alphabet))
	}
	if r.Alphabet[0] != "1" || r.Alphabet[19] != "20" {
		t.Errorf("number_order alphabet bounds = %q..%q, want 1..20", r.Alphabet[0], r.Alphabet[19])
	}
	if r.SequenceLength(1) != 20 {
		t.Errorf("number_order SequenceLength(1) = %d, want 20", r.SequenceLength(1))
	}
}

func TestScriptedCurveOverridesAreClamped(t *testing.T) {
	r := patternRecallRules()
	r.LengthFn = func(level int) int { return 1000 }
	r.RevealFn = func(level int) int { return -50 }

	if got := r.SequenceLength(3); got != r.MaxLength {
		t.Errorf("SequenceLength with runaway hook = %d, want cap %d", got, r.MaxLength)
	}
	if got := r.RevealIntervalMs(3); got != r.RevealFloorMs {
		t.Errorf("RevealIntervalMs with negative hook = %d, want floor %d", got, r.RevealFloorMs)
	}
}
