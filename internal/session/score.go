package session

import "github.com/neuromint/neuromint-go/internal/games"

// Evaluation is the verdict on a response against its expected sequence.
type Evaluation struct {
	// PrefixMatches reports whether every received token matches the
	// expected token at the same index.
	PrefixMatches bool
	// Complete reports whether the response has reached full length.
	Complete bool
	// Correct reports a complete, fully matching response.
	Correct bool
}

// Evaluate compares a response against the expected sequence. The controller
// calls it after every appended token, so a wrong token ends the round at
// the index it arrives rather than after full-length input.
func Evaluate(expected, received []games.Token) Evaluation {
	ev := Evaluation{PrefixMatches: true}
	if len(received) > len(expected) {
		ev.PrefixMatches = false
		return ev
	}
	for i, tok := range received {
		if tok != expected[i] {
			ev.PrefixMatches = false
			return ev
		}
	}
	ev.Complete = len(received) == len(expected)
	ev.Correct = ev.Complete
	return ev
}

// MismatchIndex returns the index of the first wrong token, or -1 when the
// response is a valid prefix.
func MismatchIndex(expected, received []games.Token) int {
	for i, tok := range received {
		if i >= len(expected) || tok != expected[i] {
			return i
		}
	}
	return -1
}
