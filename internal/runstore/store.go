// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runstore persists run history in a local SQLite database.
// Every run and every completed phase is recorded as it happens, which is
// what makes aborted runs resumable and finished runs re-exportable.
package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jdyun/sermon-engine/pkg/types"
)

const dbFile = "history.db"

// Run statuses as stored in the runs table.
const (
	StatusRunning   = "running"   // phases in progress
	StatusAborted   = "aborted"   // a phase failed; partial artifacts remain
	StatusGenerated = "generated" // all five phases done, document not written
	StatusExported  = "exported"  // document written
)

// Store manages the run history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at outputDir/history.db and
// bootstraps the schema.
func Open(outputDir string) (*Store, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	dbPath := filepath.Join(outputDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			tag TEXT PRIMARY KEY,
			passage_range TEXT NOT NULL,
			sermon_date TEXT,
			tone TEXT,
			duration TEXT,
			status TEXT NOT NULL,
			document_path TEXT,
			started_at TEXT,
			finished_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS phases (
			run_tag TEXT NOT NULL REFERENCES runs(tag),
			phase INTEGER NOT NULL,
			path TEXT NOT NULL,
			chars INTEGER,
			created_at TEXT,
			PRIMARY KEY (run_tag, phase)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_passage_range ON runs(passage_range)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunRecord is one row of the runs table.
type RunRecord struct {
	Tag          string `json:"tag"`
	PassageRange string `json:"passage_range"`
	SermonDate   string `json:"sermon_date"`
	Tone         string `json:"tone"`
	Duration     string `json:"duration"`
	Status       string `json:"status"`
	DocumentPath string `json:"document_path,omitempty"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at,omitempty"`
}

// PhaseRecord is one row of the phases table.
type PhaseRecord struct {
	Phase     types.Phase `json:"phase"`
	Path      string      `json:"path"`
	Chars     int         `json:"chars"`
	CreatedAt string      `json:"created_at"`
}

// BeginRun records a run as running. Re-beginning an existing tag (resume)
// flips its status back to running without touching recorded phases.
func (s *Store) BeginRun(ctx context.Context, run *types.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (tag, passage_range, sermon_date, tone, duration, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tag) DO UPDATE SET status = excluded.status, finished_at = NULL`,
		run.Tag, run.Input.PassageRange, run.Input.SermonDate,
		string(run.Input.Tone), run.Input.Duration,
		StatusRunning, run.StartedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.Tag, err)
	}
	return nil
}

// RecordPhase records one completed phase of a run.
func (s *Store) RecordPhase(ctx context.Context, tag string, res types.PhaseResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO phases (run_tag, phase, path, chars, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		tag, int(res.Phase), res.Path, len([]rune(res.Text)),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording phase %d of run %s: %w", res.Phase, tag, err)
	}
	return nil
}

// MarkGenerated marks a run as having all five phases complete.
func (s *Store) MarkGenerated(ctx context.Context, tag string) error {
	return s.setStatus(ctx, tag, StatusGenerated, "")
}

// MarkAborted marks a run as failed; its recorded phases stay in place.
func (s *Store) MarkAborted(ctx context.Context, tag string) error {
	return s.setStatus(ctx, tag, StatusAborted, "")
}

// MarkExported marks a run as exported and records the document path.
func (s *Store) MarkExported(ctx context.Context, tag, documentPath string) error {
	return s.setStatus(ctx, tag, StatusExported, documentPath)
}

func (s *Store) setStatus(ctx context.Context, tag, status, documentPath string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?,
		 document_path = CASE WHEN ? != '' THEN ? ELSE document_path END
		 WHERE tag = ?`,
		status, time.Now().UTC().Format(time.RFC3339),
		documentPath, documentPath, tag)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", tag, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("run %s not found", tag)
	}
	return nil
}

const runColumns = `tag, passage_range, sermon_date, tone, duration, status,
	COALESCE(document_path, ''), COALESCE(started_at, ''), COALESCE(finished_at, '')`

func scanRun(row interface{ Scan(...any) error }) (*RunRecord, error) {
	var r RunRecord
	err := row.Scan(&r.Tag, &r.PassageRange, &r.SermonDate, &r.Tone, &r.Duration,
		&r.Status, &r.DocumentPath, &r.StartedAt, &r.FinishedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Get returns the run with the given tag.
func (s *Store) Get(ctx context.Context, tag string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE tag = ?`, tag)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", tag)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", tag, err)
	}
	return r, nil
}

// LastAborted returns the most recent aborted run for the passage range,
// or nil when there is none.
func (s *Store) LastAborted(ctx context.Context, passageRange string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs
		 WHERE passage_range = ? AND status = ?
		 ORDER BY tag DESC LIMIT 1`,
		passageRange, StatusAborted)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying aborted runs for %q: %w", passageRange, err)
	}
	return r, nil
}

// PhasesFor returns the recorded phases of a run in phase order.
func (s *Store) PhasesFor(ctx context.Context, tag string) ([]PhaseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT phase, path, COALESCE(chars, 0), COALESCE(created_at, '')
		 FROM phases WHERE run_tag = ? ORDER BY phase`, tag)
	if err != nil {
		return nil, fmt.Errorf("querying phases of run %s: %w", tag, err)
	}
	defer rows.Close()

	var phases []PhaseRecord
	for rows.Next() {
		var p PhaseRecord
		var phase int
		if err := rows.Scan(&phase, &p.Path, &p.Chars, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning phase row: %w", err)
		}
		p.Phase = types.Phase(phase)
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

// ListRuns returns up to limit runs, most recent first. A limit of 0
// means 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY tag DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}
