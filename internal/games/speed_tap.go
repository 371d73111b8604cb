package games

// speedTapRules defines the target-tapping game: up to 20 targets, each
// appearing after a 0.5-2 second delay, under a 30-second countdown. One
// point per hit; a missed target simply stays until tapped or time runs out.
func speedTapRules() Rules {
	return Rules{
		ID:          "speed_tap",
		Name:        "Speed Tap",
		Mode:        ModeReaction,
		MetricLabel: "score",

		Alphabet: []Token{"target"},

		ScoreBase: 1,

		Wrong:       WrongIgnore,
		RoundLimit:  20,
		TimeLimitMs: 30000,
		MinDelayMs:  500,
		MaxDelayMs:  2000,
		Record:      RecordScore,
	}
}
