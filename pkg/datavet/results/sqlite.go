package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeFormat is RFC 3339 with a fixed nanosecond width so the TEXT
// column sorts chronologically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists results to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite result store.
// The path should be a file path (e.g., "./results.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			suite TEXT NOT NULL,
			success INTEGER NOT NULL,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_results_suite
		ON results(suite)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, result Result) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Result{}, ErrStoreClosed
	}

	normalizeResult(&result)

	payload, err := json.Marshal(result.Payload)
	if err != nil {
		return Result{}, fmt.Errorf("encode payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (id, run_id, suite, success, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			run_id = excluded.run_id,
			suite = excluded.suite,
			success = excluded.success,
			payload = excluded.payload,
			created_at = excluded.created_at
	`, result.ID, result.RunID, result.Suite, result.Success,
		string(payload), result.CreatedAt.Format(timeFormat))
	if err != nil {
		return Result{}, fmt.Errorf("save result: %w", err)
	}
	return result, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Result{}, ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, run_id, suite, success, payload, created_at
		FROM results
		WHERE id = ?
	`, id)

	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("get result: %w", err)
	}
	return result, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, suite string) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	query := `
		SELECT id, run_id, suite, success, payload, created_at
		FROM results
		ORDER BY created_at DESC, rowid DESC
	`
	var args []any
	if suite != "" {
		query = `
			SELECT id, run_id, suite, success, payload, created_at
			FROM results
			WHERE suite = ?
			ORDER BY created_at DESC, rowid DESC
		`
		args = append(args, suite)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM results WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanResult reads one results row.
func scanResult(row rowScanner) (Result, error) {
	var (
		r         Result
		payload   string
		createdAt string
	)
	if err := row.Scan(&r.ID, &r.RunID, &r.Suite, &r.Success, &payload, &createdAt); err != nil {
		return Result{}, err
	}

	if err := json.Unmarshal([]byte(payload), &r.Payload); err != nil {
		return Result{}, fmt.Errorf("decode payload: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Result{}, fmt.Errorf("parse created_at: %w", err)
	}
	r.CreatedAt = t

	return r, nil
}
