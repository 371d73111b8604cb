package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestGetBestRecordUnset(t *testing.T) {
	db := newTestDB(t)

	rec, err := db.GetBestRecord("pattern_recall")
	if err != nil {
		t.Fatalf("GetBestRecord: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record for never-played game, got %+v", rec)
	}
}

func TestPutAndGetBestRecord(t *testing.T) {
	db := newTestDB(t)

	score := int64(120)
	level := int64(7)
	rec := &BestRecord{GameID: "memory_sequence", BestScore: &score, BestLevel: &level}
	if err := db.PutBestRecord(rec); err != nil {
		t.Fatalf("PutBestRecord: %v", err)
	}

	got, err := db.GetBestRecord("memory_sequence")
	if err != nil {
		t.Fatalf("GetBestRecord: %v", err)
	}
	if got == nil {
		t.Fatal("GetBestRecord returned nil after put")
	}
	if got.BestScore == nil || *got.BestScore != 120 {
		t.Errorf("BestScore = %v, want 120", got.BestScore)
	}
	if got.BestLevel == nil || *got.BestLevel != 7 {
		t.Errorf("BestLevel = %v, want 7", got.BestLevel)
	}
	if got.BestTimeSeconds != nil {
		t.Errorf("BestTimeSeconds = %v, want unset", got.BestTimeSeconds)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not populated")
	}
}

func TestPutBestRecordUpsert(t *testing.T) {
	db := newTestDB(t)

	first := decimal.NewFromFloat(14.52)
	if err := db.PutBestRecord(&BestRecord{GameID: "number_order", BestTimeSeconds: &first}); err != nil {
		t.Fatalf("PutBestRecord: %v", err)
	}

	second := decimal.NewFromFloat(11.07)
	if err := db.PutBestRecord(&BestRecord{GameID: "number_order", BestTimeSeconds: &second}); err != nil {
		t.Fatalf("PutBestRecord (upsert): %v", err)
	}

	got, err := db.GetBestRecord("number_order")
	if err != nil {
		t.Fatalf("GetBestRecord: %v", err)
	}
	if got == nil || got.BestTimeSeconds == nil {
		t.Fatal("expected time record after upsert")
	}
	if !got.BestTimeSeconds.Equal(second) {
		t.Errorf("BestTimeSeconds = %s, want 11.07", got.BestTimeSeconds)
	}
}

func TestZeroScoreDistinctFromUnset(t *testing.T) {
	db := newTestDB(t)

	zero := int64(0)
	if err := db.PutBestRecord(&BestRecord{GameID: "speed_tap", BestScore: &zero}); err != nil {
		t.Fatalf("PutBestRecord: %v", err)
	}

	got, err := db.GetBestRecord("speed_tap")
	if err != nil {
		t.Fatalf("GetBestRecord: %v", err)
	}
	if got == nil || got.BestScore == nil {
		t.Fatal("a stored zero score must round-trip as set, not unset")
	}
	if *got.BestScore != 0 {
		t.Errorf("BestScore = %d, want 0", *got.BestScore)
	}
}

func TestSaveAndListResults(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		res := &SessionResult{
			GameID:      "color_stroop",
			Score:       int64(100 + i*10),
			TimeSeconds: decimal.NewFromInt(30),
			Level:       1,
			Rounds:      20,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.SaveResult(res); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
		if res.ID == "" {
			t.Fatal("SaveResult did not assign an id")
		}
	}

	results, err := db.ListResults("color_stroop", 3)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("ListResults returned %d rows, want 3", len(results))
	}
	// Newest first.
	if results[0].Score != 140 {
		t.Errorf("newest result score = %d, want 140", results[0].Score)
	}
	for i := 1; i < len(results); i++ {
		if results[i].CreatedAt.After(results[i-1].CreatedAt) {
			t.Error("results not ordered newest first")
		}
	}

	other, err := db.ListResults("speed_tap", 0)
	if err != nil {
		t.Fatalf("ListResults (other game): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no results for unplayed game, got %d", len(other))
	}
}

func TestListBestRecords(t *testing.T) {
	db := newTestDB(t)

	score := int64(50)
	lvl := int64(4)
	if err := db.PutBestRecord(&BestRecord{GameID: "speed_tap", BestScore: &score}); err != nil {
		t.Fatal(err)
	}
	if err := db.PutBestRecord(&BestRecord{GameID: "pattern_recall", BestLevel: &lvl}); err != nil {
		t.Fatal(err)
	}

	recs, err := db.ListBestRecords()
	if err != nil {
		t.Fatalf("ListBestRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("ListBestRecords returned %d, want 2", len(recs))
	}
	if recs[0].GameID != "pattern_recall" || recs[1].GameID != "speed_tap" {
		t.Errorf("records not ordered by game id: %q, %q", recs[0].GameID, recs[1].GameID)
	}
}
