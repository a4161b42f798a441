// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/tadasu/internal/report"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	CREATE TABLE IF NOT EXISTS findings (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		level TEXT NOT NULL,
		folder TEXT,
		file TEXT,
		message TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_findings_run_id ON findings(run_id);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateRun inserts a run and its findings in one transaction.
func (s *SQLiteStorage) CreateRun(ctx context.Context, run *report.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at, finished_at, status, message)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.StartedAt, run.FinishedAt, run.Status, run.Message,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (run_id, seq, level, folder, file, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, f := range run.Findings {
		if _, err := stmt.ExecContext(ctx, run.ID, i, string(f.Level), f.Folder, f.File, f.Message, f.Time); err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
	}
	return tx.Commit()
}

// GetRun returns a run by ID with its findings in recorded order.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*report.Run, error) {
	var run report.Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, root, started_at, finished_at, status, message
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Root, &run.StartedAt, &run.FinishedAt, &run.Status, &run.Message)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT level, folder, file, message, created_at
		 FROM findings WHERE run_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var f report.Finding
		var level string
		if err := rows.Scan(&level, &f.Folder, &f.File, &f.Message, &f.Time); err != nil {
			return nil, err
		}
		f.Level = report.Level(level)
		run.Findings = append(run.Findings, f)
	}
	return &run, rows.Err()
}

// ListRuns returns runs newest-first with offset and limit, findings excluded.
func (s *SQLiteStorage) ListRuns(ctx context.Context, offset, limit int) ([]*report.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, started_at, finished_at, status, message
		 FROM runs ORDER BY started_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*report.Run
	for rows.Next() {
		var run report.Run
		if err := rows.Scan(&run.ID, &run.Root, &run.StartedAt, &run.FinishedAt, &run.Status, &run.Message); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// CountRuns returns the total number of stored runs.
func (s *SQLiteStorage) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
