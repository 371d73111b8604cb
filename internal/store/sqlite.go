package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) a SQLite database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS best_records (
			game_id TEXT PRIMARY KEY,
			best_score INTEGER,
			best_time_seconds TEXT,
			best_level INTEGER,
			best_moves INTEGER,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session_results (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			time_seconds TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			rounds INTEGER NOT NULL DEFAULT 0,
			errors INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			new_record INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_game_created ON session_results(game_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_results_created ON session_results(created_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// GetBestRecord returns the best record for a game, or nil when the game has
// never produced one.
func (s *SQLiteDB) GetBestRecord(gameID string) (*BestRecord, error) {
	row := s.db.QueryRow(`
		SELECT game_id, best_score, best_time_seconds, best_level, best_moves, updated_at
		FROM best_records WHERE game_id = ?`, gameID)

	rec, err := scanBestRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get best record: %w", err)
	}
	return rec, nil
}

// PutBestRecord upserts a best record. The improvement comparison belongs to
// the session controller; this only persists.
func (s *SQLiteDB) PutBestRecord(rec *BestRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO best_records (game_id, best_score, best_time_seconds, best_level, best_moves, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			best_score = excluded.best_score,
			best_time_seconds = excluded.best_time_seconds,
			best_level = excluded.best_level,
			best_moves = excluded.best_moves,
			updated_at = excluded.updated_at`,
		rec.GameID,
		nullableInt(rec.BestScore),
		nullableDecimal(rec.BestTimeSeconds),
		nullableInt(rec.BestLevel),
		nullableInt(rec.BestMoves),
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put best record: %w", err)
	}
	return nil
}

// ListBestRecords returns every stored best record ordered by game id.
func (s *SQLiteDB) ListBestRecords() ([]BestRecord, error) {
	rows, err := s.db.Query(`
		SELECT game_id, best_score, best_time_seconds, best_level, best_moves, updated_at
		FROM best_records ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list best records: %w", err)
	}
	defer rows.Close()

	var out []BestRecord
	for rows.Next() {
		rec, err := scanBestRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan best record: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// SaveResult stores one completed session.
func (s *SQLiteDB) SaveResult(res *SessionResult) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO session_results (id, game_id, score, time_seconds, level, rounds, errors, moves, new_record, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.GameID, res.Score, res.TimeSeconds.String(), res.Level,
		res.Rounds, res.Errors, res.Moves, boolToInt(res.NewRecord), res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// ListResults returns the most recent results for a game, newest first.
// A limit of 0 defaults to 50.
func (s *SQLiteDB) ListResults(gameID string, limit int) ([]SessionResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, game_id, score, time_seconds, level, rounds, errors, moves, new_record, created_at
		FROM session_results WHERE game_id = ?
		ORDER BY created_at DESC LIMIT ?`, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var out []SessionResult
	for rows.Next() {
		var res SessionResult
		var seconds string
		var newRecord int
		if err := rows.Scan(&res.ID, &res.GameID, &res.Score, &seconds, &res.Level,
			&res.Rounds, &res.Errors, &res.Moves, &newRecord, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.TimeSeconds, err = decimal.NewFromString(seconds)
		if err != nil {
			return nil, fmt.Errorf("corrupt time_seconds %q: %w", seconds, err)
		}
		res.NewRecord = newRecord != 0
		out = append(out, res)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBestRecord(row rowScanner) (*BestRecord, error) {
	var rec BestRecord
	var score, level, moves sql.NullInt64
	var seconds sql.NullString

	if err := row.Scan(&rec.GameID, &score, &seconds, &level, &moves, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if score.Valid {
		rec.BestScore = &score.Int64
	}
	if level.Valid {
		rec.BestLevel = &level.Int64
	}
	if moves.Valid {
		rec.BestMoves = &moves.Int64
	}
	if seconds.Valid {
		d, err := decimal.NewFromString(seconds.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt best_time_seconds %q: %w", seconds.String, err)
		}
		rec.BestTimeSeconds = &d
	}
	return &rec, nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableDecimal(v *decimal.Decimal) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
