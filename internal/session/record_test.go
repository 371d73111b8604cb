package session

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/neuromint/neuromint-go/internal/games"
	"github.com/neuromint/neuromint-go/internal/store"
)

func i64(v int64) *int64 { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestImproveRecordFirstEverResult(t *testing.T) {
	rules, _ := games.Get("memory_sequence")
	merged, improved := improveRecord(rules, nil, outcome{score: 0, level: 1})
	if !improved {
		t.Fatal("a first result must improve an unset record, even at zero")
	}
	if merged.BestScore == nil || *merged.BestScore != 0 {
		t.Fatalf("BestScore = %v, want set to 0", merged.BestScore)
	}
}

func TestImproveRecordScoreStrictlyHigher(t *testing.T) {
	rules, _ := games.Get("memory_sequence")
	existing := &store.BestRecord{GameID: rules.ID, BestScore: i64(100), BestLevel: i64(5)}

	if _, improved := improveRecord(rules, existing, outcome{score: 100, level: 5}); improved {
		t.Fatal("an equal score must not count as an improvement")
	}
	merged, improved := improveRecord(rules, existing, outcome{score: 110, level: 4})
	if !improved {
		t.Fatal("a higher score must improve")
	}
	if *merged.BestScore != 110 {
		t.Fatalf("BestScore = %d, want 110", *merged.BestScore)
	}
	if *merged.BestLevel != 5 {
		t.Fatalf("BestLevel = %d, want the existing 5 kept", *merged.BestLevel)
	}
}

func TestImproveRecordLevelMetric(t *testing.T) {
	rules, _ := games.Get("pattern_recall")
	existing := &store.BestRecord{GameID: rules.ID, BestLevel: i64(7)}

	if _, improved := improveRecord(rules, existing, outcome{level: 7}); improved {
		t.Fatal("equal level is not an improvement")
	}
	merged, improved := improveRecord(rules, existing, outcome{level: 8})
	if !improved || *merged.BestLevel != 8 {
		t.Fatalf("merged level = %v improved=%v, want 8 true", merged.BestLevel, improved)
	}
}

func TestImproveRecordTimeStrictlyLower(t *testing.T) {
	rules, _ := games.Get("number_order")
	existing := &store.BestRecord{GameID: rules.ID, BestTimeSeconds: dec("24.50")}

	same := outcome{timeSeconds: decimal.RequireFromString("24.50")}
	if _, improved := improveRecord(rules, existing, same); improved {
		t.Fatal("equal time is not an improvement")
	}
	faster := outcome{timeSeconds: decimal.RequireFromString("24.49")}
	merged, improved := improveRecord(rules, existing, faster)
	if !improved {
		t.Fatal("a faster time must improve")
	}
	if !merged.BestTimeSeconds.Equal(decimal.RequireFromString("24.49")) {
		t.Fatalf("BestTimeSeconds = %s, want 24.49", merged.BestTimeSeconds)
	}
}

func TestImproveRecordMovesRideAlongForMatch(t *testing.T) {
	rules, _ := games.Get("match_flip")
	existing := &store.BestRecord{GameID: rules.ID, BestTimeSeconds: dec("40"), BestMoves: i64(20)}

	out := outcome{timeSeconds: decimal.RequireFromString("55"), moves: 14, hasMoves: true}
	merged, improved := improveRecord(rules, existing, out)
	if !improved {
		t.Fatal("fewer moves must improve even with a slower time")
	}
	if !merged.BestTimeSeconds.Equal(decimal.RequireFromString("40")) {
		t.Fatalf("slower time overwrote the best: %s", merged.BestTimeSeconds)
	}
	if *merged.BestMoves != 14 {
		t.Fatalf("BestMoves = %d, want 14", *merged.BestMoves)
	}
}
