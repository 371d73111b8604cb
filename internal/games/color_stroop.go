package games

// colorStroopRules defines the Stroop interference game: 20 word/ink prompts
// under a 30-second countdown, 10 points per correctly named ink color.
// Wrong answers advance the round without ending the session.
func colorStroopRules() Rules {
	return Rules{
		ID:          "color_stroop",
		Name:        "Color Stroop",
		Mode:        ModeBatch,
		MetricLabel: "score",

		Alphabet: []Token{"red", "blue", "green", "yellow", "purple"},

		InterferencePair: true,

		ScoreBase: 10,

		Wrong:       WrongTolerate,
		RoundLimit:  20,
		TimeLimitMs: 30000,
		Record:      RecordScore,
	}
}
