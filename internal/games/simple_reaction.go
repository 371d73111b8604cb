package games

// simpleReactionRules defines the reaction-time test: five attempts, each
// behind a random 2-6 second delay. Clicking before the go signal restarts
// the attempt. The best record is the lowest average reaction time.
func simpleReactionRules() Rules {
	return Rules{
		ID:          "simple_reaction",
		Name:        "Simple Reaction",
		Mode:        ModeReaction,
		MetricLabel: "avg_ms",

		Alphabet: []Token{"go"},

		Wrong:      WrongFail,
		RoundLimit: 5,
		MinDelayMs: 2000,
		MaxDelayMs: 6000,
		Record:     RecordTime,
	}
}
