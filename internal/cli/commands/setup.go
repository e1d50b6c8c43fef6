package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/internal/cli/config"
	"github.com/veristat-labs/veristat/internal/engine"
	"github.com/veristat-labs/veristat/internal/history"
	"github.com/veristat-labs/veristat/pkg/report"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext builds a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    config.FromContext(cmd.Context()),
		Logger: config.GetLogger(cmd.Context()),
	}
}

// ResultsStore opens the report store at the configured results root.
func (c *CommandContext) ResultsStore() *report.Store {
	return report.NewStore(c.Cfg.ResultsDir)
}

// OpenHistory opens the run history database, creating its directory.
func (c *CommandContext) OpenHistory() (*history.Store, error) {
	dir := filepath.Dir(c.Cfg.HistoryPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	return history.Open(c.Cfg.HistoryPath)
}

// NewEngine builds a validation engine from the configuration. The
// returned cleanup must be called (typically via defer).
func (c *CommandContext) NewEngine() (*engine.Engine, func(), error) {
	hist, err := c.OpenHistory()
	if err != nil {
		return nil, nil, err
	}

	e := engine.New(engine.Config{
		SuitesDir: c.Cfg.SuitesDir,
		Results:   c.ResultsStore(),
		History:   hist,
		Logger:    c.Logger,
	})
	cleanup := func() { _ = hist.Close() }
	return e, cleanup, nil
}

// defaultSuiteName derives the conventional suite name for a dataset:
// the base name without extension plus "_suite".
func defaultSuiteName(datasetPath string) string {
	return report.DatasetName(datasetPath) + "_suite"
}
