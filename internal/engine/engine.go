// Package engine orchestrates a validation run: load the suite and the
// dataset, execute each check in order, aggregate the outcomes into a
// report, and persist it.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/veristat-labs/veristat/internal/history"
	"github.com/veristat-labs/veristat/pkg/check"
	_ "github.com/veristat-labs/veristat/pkg/check/checks"
	"github.com/veristat-labs/veristat/pkg/dataset"
	"github.com/veristat-labs/veristat/pkg/report"
	"github.com/veristat-labs/veristat/pkg/suite"
)

// Config wires the engine's collaborators.
type Config struct {
	// SuitesDir is the directory rule suites are resolved in.
	SuitesDir string
	// Results persists reports. Required when saving.
	Results *report.Store
	// History records runs; nil disables run history.
	History *history.Store
	// Logger receives run progress. Defaults to a discard logger.
	Logger *slog.Logger
	// Now supplies run timestamps; defaults to time.Now. Injected so
	// runs are reproducible in tests.
	Now func() time.Time
}

// Engine runs validations. One engine may serve many runs; each run's
// dataset, suite and report are independently owned.
type Engine struct {
	cfg Config
}

// RunResult is the outcome of one validation run.
type RunResult struct {
	Report *report.Report
	// Key locates the persisted report; zero when saving was skipped.
	Key report.Key
	// Saved reports whether the report was persisted.
	Saved bool
}

// New creates an engine from cfg, filling defaults.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{cfg: cfg}
}

// Validate runs one suite against one dataset. Suite and dataset load
// failures abort the run with no report. A persistence failure still
// returns the computed report alongside the error, so the caller can
// retry storage independently.
func (e *Engine) Validate(ctx context.Context, datasetPath, suiteName string, save bool) (*RunResult, error) {
	logger := e.cfg.Logger.With(
		slog.String("dataset", datasetPath),
		slog.String("suite", suiteName),
	)

	s, err := suite.Load(e.cfg.SuitesDir, suiteName)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Load(ctx, datasetPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded",
		slog.Int("rows", ds.RowCount()),
		slog.Int("columns", len(ds.ColumnNames())),
	)

	outcomes := make([]check.Outcome, 0, len(s.Checks))
	for _, def := range s.Checks {
		out := check.Execute(ds, def)
		if out.Diagnostic != "" {
			logger.Warn("check could not be evaluated",
				slog.String("check", def.Type),
				slog.String("diagnostic", out.Diagnostic),
			)
		} else if !out.Success {
			logger.Debug("check failed",
				slog.String("check", def.Type),
				slog.Int("unexpected", out.Unexpected),
			)
		}
		outcomes = append(outcomes, out)
	}

	r := report.Aggregate(datasetPath, s.Name, outcomes, e.cfg.Now())
	logger.Info("validation complete",
		slog.Bool("success", r.Success),
		slog.Int("evaluated", r.Statistics.Evaluated),
		slog.Int("failed", r.Statistics.Unsuccessful),
	)

	result := &RunResult{Report: r}
	if save {
		if e.cfg.Results == nil {
			return result, fmt.Errorf("no results store configured")
		}
		key, err := e.cfg.Results.Save(r)
		if err != nil {
			return result, fmt.Errorf("persist report: %w", err)
		}
		result.Key = key
		result.Saved = true
		logger.Debug("report persisted", slog.String("path", key.ArchivePath))
	}

	e.recordHistory(logger, r, result)
	return result, nil
}

// recordHistory is best-effort: a history failure never fails the run.
func (e *Engine) recordHistory(logger *slog.Logger, r *report.Report, result *RunResult) {
	if e.cfg.History == nil {
		return
	}
	if _, err := e.cfg.History.RecordRun(r, result.Key.ArchivePath); err != nil {
		logger.Warn("record run history", slog.String("error", err.Error()))
	}
}
