// SPDX-License-Identifier: MIT

// Package history keeps a local record of translation jobs so the dashboard
// can be rendered from prior runs without the service being reachable.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, no CGO

	"github.com/vtx/vtx/internal/translator"
)

// Entry is one recorded job.
type Entry struct {
	UserID         string
	JobID          string
	TargetLanguage string
	CreatedAt      time.Time
	DurationSec    int
	Words          int
	Status         string
}

// Store is the sqlite-backed job history.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the history database at dbPath.
// WAL + busy_timeout keep concurrent CLI invocations from tripping over
// "database locked".
func OpenStore(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		job_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		target_language TEXT NOT NULL,
		created_at TEXT NOT NULL,
		duration_sec INTEGER NOT NULL DEFAULT 0,
		words INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'queued'
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_user ON jobs(user_id);
	CREATE INDEX IF NOT EXISTS idx_jobs_user_created ON jobs(user_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Upsert records entries, overwriting earlier observations of the same job.
// The batch is applied in one transaction.
func (s *Store) Upsert(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO jobs (job_id, user_id, target_language, created_at, duration_sec, words, status)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(job_id) DO UPDATE SET
		user_id = excluded.user_id,
		target_language = excluded.target_language,
		created_at = excluded.created_at,
		duration_sec = excluded.duration_sec,
		words = excluded.words,
		status = excluded.status
	`
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, query,
			e.JobID,
			e.UserID,
			e.TargetLanguage,
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.DurationSec,
			e.Words,
			e.Status,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns a user's recorded jobs, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]Entry, error) {
	query := `
	SELECT job_id, user_id, target_language, created_at, duration_sec, words, status
	FROM jobs
	WHERE user_id = ?
	ORDER BY created_at DESC, job_id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdStr string
		if err := rows.Scan(&e.JobID, &e.UserID, &e.TargetLanguage, &createdStr, &e.DurationSec, &e.Words, &e.Status); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MirrorDashboard writes the history section of a fetched dashboard into the
// local store. Entries with unparseable timestamps keep a zero time rather
// than being dropped.
func (s *Store) MirrorDashboard(ctx context.Context, userID string, data translator.DashboardData) error {
	entries := make([]Entry, 0, len(data.History))
	for _, h := range data.History {
		created, _ := time.Parse(time.RFC3339, h.CreatedAt)
		entries = append(entries, Entry{
			UserID:         userID,
			JobID:          h.JobID,
			TargetLanguage: h.TargetLanguage,
			CreatedAt:      created,
			DurationSec:    h.DurationSec,
			Words:          h.Words,
			Status:         h.Status,
		})
	}
	return s.Upsert(ctx, entries...)
}
