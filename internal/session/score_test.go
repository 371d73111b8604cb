package session

import (
	"testing"

	"github.com/neuromint/neuromint-go/internal/games"
)

func toks(ss ...string) []games.Token {
	out := make([]games.Token, len(ss))
	for i, s := range ss {
		out[i] = games.Token(s)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	expected := toks("red", "blue", "green")

	tests := []struct {
		name     string
		received []games.Token
		prefix   bool
		complete bool
	}{
		{"empty", nil, true, false},
		{"partial prefix", toks("red"), true, false},
		{"full match", toks("red", "blue", "green"), true, true},
		{"wrong first", toks("blue"), false, false},
		{"wrong mid", toks("red", "green"), false, false},
		{"too long", toks("red", "blue", "green", "red"), false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := Evaluate(expected, tc.received)
			if ev.PrefixMatches != tc.prefix {
				t.Errorf("PrefixMatches = %v, want %v", ev.PrefixMatches, tc.prefix)
			}
			if ev.Complete != tc.complete {
				t.Errorf("Complete = %v, want %v", ev.Complete, tc.complete)
			}
			if ev.Correct != (tc.prefix && tc.complete) {
				t.Errorf("Correct = %v", ev.Correct)
			}
		})
	}
}

func TestMismatchIndex(t *testing.T) {
	expected := toks("a", "b", "c")

	if got := MismatchIndex(expected, toks("a", "b")); got != -1 {
		t.Fatalf("valid prefix: index = %d, want -1", got)
	}
	if got := MismatchIndex(expected, toks("a", "c")); got != 1 {
		t.Fatalf("wrong mid token: index = %d, want 1", got)
	}
	if got := MismatchIndex(expected, toks("a", "b", "c", "d")); got != 3 {
		t.Fatalf("overlong: index = %d, want 3", got)
	}
}
