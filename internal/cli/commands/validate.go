package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/internal/engine"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Suite  string
	NoSave bool
	Strict bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <dataset>",
		Short: "Run a rule suite against a dataset",
		Long: `Validate a dataset file (CSV, JSON, or Parquet) against a rule suite.

The suite defaults to "<dataset>_suite" and is resolved in the suites
directory. Results are persisted under the results directory unless
--no-save is given.`,
		Example: `  # Validate with the conventional suite name
  veristat validate data/raw/2026-03-14/transactions.csv

  # Validate with an explicit suite
  veristat validate transactions.csv --suite strict_transactions

  # Dry run without persisting results
  veristat validate transactions.csv --no-save

  # Fail the command when any check fails (for CI)
  veristat validate transactions.csv --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			datasetPath := args[0]

			suiteName := opts.Suite
			if suiteName == "" {
				suiteName = defaultSuiteName(datasetPath)
			}

			eng, cleanup, err := cmdCtx.NewEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := eng.Validate(cmd.Context(), datasetPath, suiteName, !opts.NoSave)
			if err != nil {
				return err
			}

			printReport(cmd, result)

			if opts.Strict && !result.Report.Success {
				return fmt.Errorf("validation failed: %d of %d checks failed",
					result.Report.Statistics.Unsuccessful, result.Report.Statistics.Evaluated)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Suite, "suite", "s", "", "Suite name (default: <dataset>_suite)")
	cmd.Flags().BoolVar(&opts.NoSave, "no-save", false, "Do not persist the report")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit non-zero when any check fails")
	return cmd
}

func printReport(cmd *cobra.Command, result *engine.RunResult) {
	r := result.Report
	out := cmd.OutOrStdout()

	status := "PASSED"
	if !r.Success {
		status = "FAILED"
	}
	fmt.Fprintf(out, "\nValidation %s: %s against %s\n", status, r.DatasetName, r.SuiteName)
	fmt.Fprintf(out, "Checks: %d evaluated, %d passed, %d failed (%.2f%% success)\n",
		r.Statistics.Evaluated, r.Statistics.Successful,
		r.Statistics.Unsuccessful, r.Statistics.SuccessPercent)

	if len(r.FailedChecks) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.AppendHeader(table.Row{"Check", "Category", "Failed Rows", "Failure %", "Sample"})
		for _, fc := range r.FailedChecks {
			sample := fmt.Sprintf("%v", fc.ActualValue.UnexpectedValues)
			if fc.Diagnostic != "" {
				sample = fc.Diagnostic
			}
			t.AppendRow(table.Row{
				fc.CheckName, fc.CheckType, fc.FailedRows,
				fmt.Sprintf("%.2f", fc.FailurePercentage), sample,
			})
		}
		t.Render()
	}

	if result.Saved {
		fmt.Fprintf(out, "\nReport saved to %s\n", result.Key.ArchivePath)
	}
}
