package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run records one completed scan pass.
type Run struct {
	ID          string
	SteamID     uint64
	Mode        string
	StartedAt   time.Time
	FinishedAt  time.Time
	AppsScanned int
	Failures    int
	Outcome     string
}

// Outcome values stored for a run.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_runs (
    id           TEXT PRIMARY KEY,
    steam_id     TEXT NOT NULL,
    mode         TEXT NOT NULL,
    started_at   TEXT NOT NULL,
    finished_at  TEXT NOT NULL,
    apps_scanned INTEGER NOT NULL DEFAULT 0,
    failures     INTEGER NOT NULL DEFAULT 0,
    outcome      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_runs_started ON scan_runs(started_at DESC);
`

// Store persists scan runs backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a finished run. A zero ID is assigned a fresh UUID; the
// stored run is returned.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Outcome == "" {
		run.Outcome = OutcomeCompleted
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scan_runs (
            id, steam_id, mode, started_at, finished_at,
            apps_scanned, failures, outcome
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		fmt.Sprintf("%d", run.SteamID),
		run.Mode,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.AppsScanned,
		run.Failures,
		run.Outcome,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first, capped at limit.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, steam_id, mode, started_at, finished_at,
                apps_scanned, failures, outcome
         FROM scan_runs
         ORDER BY started_at DESC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var steamID, started, finished string
		if err := rows.Scan(
			&run.ID, &steamID, &run.Mode, &started, &finished,
			&run.AppsScanned, &run.Failures, &run.Outcome,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if _, err := fmt.Sscanf(steamID, "%d", &run.SteamID); err != nil {
			return nil, fmt.Errorf("parse steam id %q: %w", steamID, err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", started, err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", finished, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
