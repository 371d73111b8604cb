package games

// matchFlipRules defines the card-matching game: eight symbol pairs dealt
// face down, two flips per move, until every pair is found. The best record
// is the lowest completion time; the moves count rides along in the result.
func matchFlipRules() Rules {
	return Rules{
		ID:          "match_flip",
		Name:        "Match Flip",
		Mode:        ModeMatch,
		MetricLabel: "seconds",

		Alphabet:  []Token{"apple", "banana", "grape", "strawberry", "orange", "melon", "lemon", "pineapple"},
		PairCount: 8,

		Permutation: true,

		Wrong:    WrongTolerate,
		MaxLevel: 1,
		Record:   RecordTime,
	}
}
