package games

// sortItFastRules defines the falling-shape sorter: shapes spawn every 1-3
// seconds for 60 seconds and must be routed to the matching bin before they
// land. Correct sorts are worth 10 points, misses count as errors but never
// end the session early.
func sortItFastRules() Rules {
	return Rules{
		ID:          "sort_it_fast",
		Name:        "Sort It Fast",
		Mode:        ModeBatch,
		MetricLabel: "score",

		Alphabet: []Token{"circle", "square", "triangle"},

		ScoreBase: 10,

		Wrong:         WrongTolerate,
		TimeLimitMs:   60000,
		InputWindowMs: 2500,
		MinDelayMs:    1000,
		MaxDelayMs:    3000,
		Record:        RecordScore,
	}
}
