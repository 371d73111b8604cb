package games

// patternRecallRules defines the color-pad sequence game. The pattern is
// level+2 tokens long and playback speeds up 50ms per level down to a 200ms
// floor. The best record tracks the highest level reached.
func patternRecallRules() Rules {
	return Rules{
		ID:          "pattern_recall",
		Name:        "Pattern Recall",
		Mode:        ModeSequence,
		MetricLabel: "level",

		Alphabet: []Token{"red", "blue", "green", "yellow"},

		BaseLength: 3,
		LengthStep: 1,
		MaxLength:  12,

		RevealBaseMs:  1000,
		RevealStepMs:  50,
		RevealFloorMs: 200,

		Wrong:  WrongFail,
		Record: RecordLevel,
	}
}
