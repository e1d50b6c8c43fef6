// Package history keeps a queryable record of past validation runs in a
// local SQLite database, independent of the JSON report files.
package history

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/veristat-labs/veristat/pkg/report"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound reports that no run matches the query.
var ErrNotFound = errors.New("run not found")

// Run is one recorded validation run.
type Run struct {
	ID             string
	DatasetPath    string
	DatasetName    string
	SuiteName      string
	Success        bool
	Evaluated      int
	Successful     int
	Unsuccessful   int
	SuccessPercent float64
	ReportPath     string
	RunAt          time.Time
}

// Store records validation runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the history database and applies the schema.
// Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores one run derived from a report. reportPath is the
// archival file the report was persisted to, empty when persistence was
// skipped.
func (s *Store) RecordRun(r *report.Report, reportPath string) (*Run, error) {
	run := &Run{
		ID:             uuid.New().String(),
		DatasetPath:    r.DatasetPath,
		DatasetName:    r.DatasetName,
		SuiteName:      r.SuiteName,
		Success:        r.Success,
		Evaluated:      r.Statistics.Evaluated,
		Successful:     r.Statistics.Successful,
		Unsuccessful:   r.Statistics.Unsuccessful,
		SuccessPercent: r.Statistics.SuccessPercent,
		ReportPath:     reportPath,
		RunAt:          r.Timestamp.UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO validation_runs
		 (id, dataset_path, dataset_name, suite_name, success, evaluated, successful, unsuccessful, success_percent, report_path, run_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DatasetPath, run.DatasetName, run.SuiteName, run.Success,
		run.Evaluated, run.Successful, run.Unsuccessful, run.SuccessPercent,
		run.ReportPath, run.RunAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(selectRuns+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// LatestRun retrieves the most recent run for a dataset, or ErrNotFound
// when the dataset has never been validated.
func (s *Store) LatestRun(datasetName string) (*Run, error) {
	row := s.db.QueryRow(
		selectRuns+` WHERE dataset_name = ? ORDER BY run_at DESC LIMIT 1`,
		datasetName,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, datasetName)
	}
	return run, err
}

// ListRuns retrieves the most recent runs, newest first, up to limit.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(selectRuns+` ORDER BY run_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const selectRuns = `SELECT id, dataset_path, dataset_name, suite_name, success, evaluated, successful, unsuccessful, success_percent, report_path, run_at FROM validation_runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	run := &Run{}
	err := row.Scan(
		&run.ID, &run.DatasetPath, &run.DatasetName, &run.SuiteName, &run.Success,
		&run.Evaluated, &run.Successful, &run.Unsuccessful, &run.SuccessPercent,
		&run.ReportPath, &run.RunAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
