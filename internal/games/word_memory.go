package games

// wordMemoryRules defines the verbal memory game: memorize 2+level words
// (capped at 5) for 3+level seconds, then type them back in any order.
// Each recalled word is worth 10 points; the session ends after level 5.
func wordMemoryRules() Rules {
	return Rules{
		ID:          "word_memory",
		Name:        "Word Memory",
		Mode:        ModeRecall,
		MetricLabel: "score",

		WordLevels: [][]Token{
			{"sun", "cat", "tree", "book", "car"},
			{"happy", "garden", "music", "ocean", "friend"},
			{"adventure", "rainbow", "chocolate", "mountain", "butterfly"},
			{"telephone", "umbrella", "basketball", "refrigerator", "computer"},
			{"extraordinary", "magnificent", "opportunity", "environment", "imagination"},
		},

		BaseLength: 3,
		LengthStep: 1,
		MaxLength:  5,

		RevealFn: func(level int) int { return (3 + level) * 1000 },

		ScoreBase: 10,

		Wrong:    WrongTolerate,
		MaxLevel: 5,
		Record:   RecordScore,
	}
}
