package games

import "strconv"

func numberTokens(n int) []Token {
	out := make([]Token, n)
	for i := range out {
		out[i] = Token(strconv.Itoa(i + 1))
	}
	return out
}

// numberOrderRules defines the 1-to-20 attention game: a shuffled grid stays
// visible and must be clicked in ascending order. Clicks on the wrong number
// are ignored. The best record is the lowest completion time.
func numberOrderRules() Rules {
	return Rules{
		ID:          "number_order",
		Name:        "Number Order",
		Mode:        ModeSequence,
		MetricLabel: "seconds",

		Alphabet: numberTokens(20),

		BaseLength: 20,
		MaxLength:  20,

		Permutation:     true,
		StimulusVisible: true,

		Wrong:    WrongIgnore,
		MaxLevel: 1,
		Record:   RecordTime,
	}
}
