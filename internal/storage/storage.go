// Package storage keeps run history, processed colleges and the session
// visited set in a sqlite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jmylchreest/collegescout/internal/crawler"
	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/pkg/pipeline"
)

// ErrRunNotFound is returned when a run ID has no stored run.
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  startedAt TEXT NOT NULL,
  completedAt TEXT,
  colleges INTEGER NOT NULL,
  errors INTEGER NOT NULL,
  errorsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS colleges (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  entryId INTEGER NOT NULL,
  name TEXT NOT NULL,
  sourceUrl TEXT,
  collegeType TEXT,
  completeness REAL NOT NULL,
  entryJson TEXT NOT NULL,
  UNIQUE(runId, entryId),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_colleges_name ON colleges(name);
CREATE INDEX IF NOT EXISTS idx_colleges_sourceUrl ON colleges(sourceUrl);

CREATE TABLE IF NOT EXISTS visited (
  url TEXT PRIMARY KEY,
  runId TEXT,
  firstSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a sqlite-backed run store.
type Store struct {
	conn *sql.DB
}

// Run summarizes one stored run.
type Run struct {
	ID          string
	StartedAt   time.Time
	CompletedAt time.Time
	Colleges    int
	Errors      []string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveReport stores a run and its colleges in one transaction. A report
// without a run ID is given one.
func (s *Store) SaveReport(ctx context.Context, r *pipeline.Report) error {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}

	started := r.Timestamp
	if started.IsZero() {
		started = time.Now()
	}

	errorsJSON, err := json.Marshal(nonNil(r.Errors))
	if err != nil {
		return err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, startedAt, completedAt, colleges, errors, errorsJson)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  completedAt = excluded.completedAt,
  colleges = excluded.colleges,
  errors = excluded.errors,
  errorsJson = excluded.errorsJson`,
		r.RunID, formatTime(started), formatTime(r.Summary.ProcessingTime),
		len(r.Colleges), len(r.Errors), string(errorsJSON))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO colleges (runId, entryId, name, sourceUrl, collegeType, completeness, entryJson)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(runId, entryId) DO UPDATE SET
  name = excluded.name,
  sourceUrl = excluded.sourceUrl,
  collegeType = excluded.collegeType,
  completeness = excluded.completeness,
  entryJson = excluded.entryJson`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range r.Colleges {
		entryJSON, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode college %d: %w", e.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, r.RunID, e.ID, e.RawData.Name, e.RawData.SourceURL,
			e.RawData.CollegeType, e.RawData.CompletenessScore, string(entryJSON)); err != nil {
			return fmt.Errorf("insert college %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Component("storage").Info("run stored", "run_id", r.RunID, "colleges", len(r.Colleges))
	return nil
}

// Run loads a stored run's summary.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, startedAt, completedAt, colleges, errorsJson FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Runs lists stored runs, newest first. A limit of 0 lists all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, startedAt, completedAt, colleges, errorsJson FROM runs ORDER BY startedAt DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Colleges loads a run's entries in ID order.
func (s *Store) Colleges(ctx context.Context, runID string) ([]pipeline.Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT entryJson FROM colleges WHERE runId = ? ORDER BY entryId`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []pipeline.Entry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var e pipeline.Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode college: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LoadVisited returns every URL recorded as visited.
func (s *Store) LoadVisited(ctx context.Context) (crawler.Visited, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT url FROM visited`)
	if err != nil {
		return crawler.Visited{}, err
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return crawler.Visited{}, err
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return crawler.Visited{}, err
	}
	return crawler.NewVisited(urls...), nil
}

// SaveVisited records every URL in v. URLs already stored keep their first
// run ID.
func (s *Store) SaveVisited(ctx context.Context, runID string, v crawler.Visited) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO visited (url, runId) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range v.URLs() {
		if _, err := stmt.ExecContext(ctx, u, runID); err != nil {
			return fmt.Errorf("insert visited %s: %w", u, err)
		}
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                 Run
		started, errorsJSON string
		completed           sql.NullString
	)
	if err := row.Scan(&run.ID, &started, &completed, &run.Colleges, &errorsJSON); err != nil {
		return Run{}, err
	}
	run.StartedAt = parseTime(started)
	if completed.Valid {
		run.CompletedAt = parseTime(completed.String)
	}
	if err := json.Unmarshal([]byte(errorsJSON), &run.Errors); err != nil {
		return Run{}, fmt.Errorf("decode run errors: %w", err)
	}
	return run, nil
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
