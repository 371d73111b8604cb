package games

// memorySequenceRules defines the four-button Simon-style memory game.
// Sequence length starts at 3 and grows by one every two levels up to 10;
// each round success is worth 10 * level.
func memorySequenceRules() Rules {
	return Rules{
		ID:          "memory_sequence",
		Name:        "Memory Game",
		Mode:        ModeSequence,
		MetricLabel: "score",

		Alphabet: []Token{"0", "1", "2", "3"},

		BaseLength: 3,
		LengthStep: 2,
		MaxLength:  10,

		// 500ms highlight plus 500ms gap per token, independent of level.
		RevealBaseMs:  1000,
		RevealFloorMs: 1000,

		ScoreBase:     10,
		ScalePerLevel: true,

		Wrong:  WrongFail,
		Record: RecordScore,
	}
}
