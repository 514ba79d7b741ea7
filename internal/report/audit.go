package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// RunInfo describes a finished run for the audit database.
type RunInfo struct {
	RunID    string
	Profile  string
	Started  time.Time
	Finished time.Time
	Inputs   int
	Outputs  []string
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	profile     TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	inputs      INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	warnings    INTEGER NOT NULL,
	errors      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS report_lines (
	run_id  TEXT NOT NULL REFERENCES runs(run_id),
	seq     INTEGER NOT NULL,
	level   TEXT NOT NULL,
	file    TEXT NOT NULL,
	message TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS outputs (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	seq    INTEGER NOT NULL,
	path   TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_report_lines_file ON report_lines(file);
`

// SaveSQLite appends the run and its report to a SQLite database, creating
// the tables on first use. Earlier runs are kept.
func SaveSQLite(ctx context.Context, path string, run RunInfo, rep *Report) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open audit database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin audit transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, profile, started_at, finished_at, inputs, succeeded, warnings, errors) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Profile,
		run.Started.UTC().Format(time.RFC3339), run.Finished.UTC().Format(time.RFC3339),
		run.Inputs, rep.Count(LevelSuccess), rep.Count(LevelWarning), rep.Count(LevelError),
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	lineStmt, err := tx.PrepareContext(ctx, `INSERT INTO report_lines (run_id, seq, level, file, message) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare report insert: %w", err)
	}
	defer lineStmt.Close()

	for i, line := range rep.Lines() {
		if _, err := lineStmt.ExecContext(ctx, run.RunID, i+1, string(line.Level), line.File, line.Message); err != nil {
			return fmt.Errorf("failed to insert report line %d: %w", i+1, err)
		}
	}

	for i, out := range run.Outputs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO outputs (run_id, seq, path) VALUES (?, ?, ?)`, run.RunID, i+1, out); err != nil {
			return fmt.Errorf("failed to insert output %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit: %w", err)
	}
	return nil
}
