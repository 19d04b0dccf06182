// Package history keeps a local record of past fetch runs in SQLite,
// so earlier exports can be listed and browsed without refetching.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Run is one recorded fetch of a single item kind.
type Run struct {
	ID         int64
	Kind       string    // "tracks" or "artists"
	TimeRange  string
	ItemCount  int
	OutputFile string
	FetchedAt  time.Time
}

// Item is one ranked entry of a run.
type Item struct {
	RunID      int64
	Rank       int
	Name       string
	Detail     string // joined artist names for tracks, primary genre for artists
	SpotifyID  string
	Popularity int
}

// Open opens (and if needed creates) the history database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection keeps in-memory databases consistent and is
	// plenty for a sequential CLI.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			time_range TEXT NOT NULL,
			item_count INTEGER NOT NULL,
			output_file TEXT NOT NULL,
			fetched_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);

		CREATE TABLE IF NOT EXISTS items (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			name TEXT NOT NULL,
			detail TEXT,
			spotify_id TEXT,
			popularity INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, rank)
		);

		CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind, fetched_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a run and its ranked items in one transaction,
// returning the new run id.
func (s *Store) RecordRun(ctx context.Context, run Run, items []Item) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	fetchedAt := run.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO runs (kind, time_range, item_count, output_file, fetched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.Kind, run.TimeRange, run.ItemCount, run.OutputFile, fetchedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (run_id, rank, name, detail, spotify_id, popularity)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, runID, item.Rank, item.Name, item.Detail, item.SpotifyID, item.Popularity); err != nil {
			return 0, fmt.Errorf("failed to insert item %d: %w", item.Rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
// A limit of zero or below returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, kind, time_range, item_count, output_file, fetched_at
		FROM runs
		ORDER BY fetched_at DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// LatestRun returns the newest run of the given kind, or nil when the
// kind has never been fetched.
func (s *Store) LatestRun(ctx context.Context, kind string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, time_range, item_count, output_file, fetched_at
		FROM runs
		WHERE kind = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, kind)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RunItems returns a run's items in rank order.
func (s *Store) RunItems(ctx context.Context, runID int64) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, rank, name, detail, spotify_id, popularity
		FROM items
		WHERE run_id = ?
		ORDER BY rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var detail, spotifyID sql.NullString
		if err := rows.Scan(&item.RunID, &item.Rank, &item.Name, &detail, &spotifyID, &item.Popularity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Detail = detail.String
		item.SpotifyID = spotifyID.String
		items = append(items, item)
	}

	return items, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var fetchedAt int64
	if err := row.Scan(&run.ID, &run.Kind, &run.TimeRange, &run.ItemCount, &run.OutputFile, &fetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.FetchedAt = time.Unix(fetchedAt, 0)
	return run, nil
}
