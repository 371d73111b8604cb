package session

import (
	"github.com/neuromint/neuromint-go/internal/engine"
	"github.com/neuromint/neuromint-go/internal/games"
)

// maxResampleAttempts bounds no-adjacent-repeat resampling. Past the cap the
// repeat is allowed rather than looping; an occasional adjacent duplicate is
// an accepted trade against an unbounded draw loop.
const maxResampleAttempts = 8

// generator produces stimuli from an injected random stream. It never reads
// the wall clock or any global state, so a seeded stream replays a session's
// stimuli exactly.
type generator struct {
	rng *engine.Stream
}

// sequence draws n tokens from the alphabet for a level.
func (g generator) sequence(rules games.Rules, level int) []games.Token {
	n := rules.SequenceLength(level)
	out := make([]games.Token, n)
	for i := 0; i < n; i++ {
		tok := rules.Alphabet[g.rng.Intn(len(rules.Alphabet))]
		if rules.NoAdjacentRepeat && i > 0 {
			for attempt := 0; attempt < maxResampleAttempts && tok == out[i-1]; attempt++ {
				tok = rules.Alphabet[g.rng.Intn(len(rules.Alphabet))]
			}
		}
		out[i] = tok
	}
	return out
}

// permutation returns the alphabet in shuffled order.
func (g generator) permutation(alphabet []games.Token) []games.Token {
	out := make([]games.Token, len(alphabet))
	copy(out, alphabet)
	g.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// pairLayout deals a shuffled board of symbol pairs.
func (g generator) pairLayout(alphabet []games.Token, pairs int) []games.Token {
	out := make([]games.Token, 0, pairs*2)
	for i := 0; i < pairs; i++ {
		out = append(out, alphabet[i], alphabet[i])
	}
	g.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// recallWords picks the memorize batch for a level. The word list grows with
// level and the batch size follows the configured length curve.
func (g generator) recallWords(rules games.Rules, level int) []games.Token {
	idx := level - 1
	if idx >= len(rules.WordLevels) {
		idx = len(rules.WordLevels) - 1
	}
	if idx < 0 {
		idx = 0
	}
	list := rules.WordLevels[idx]
	n := rules.SequenceLength(level)
	if n > len(list) {
		n = len(list)
	}
	out := make([]games.Token, n)
	copy(out, list[:n])
	return out
}

// interferencePair draws a word token and an ink token. The two are drawn
// independently; the congruent case (word matching ink) is part of the game.
func (g generator) interferencePair(alphabet []games.Token) []games.Token {
	word := alphabet[g.rng.Intn(len(alphabet))]
	ink := alphabet[g.rng.Intn(len(alphabet))]
	return []games.Token{word, ink}
}
