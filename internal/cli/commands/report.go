package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/pkg/report"
)

// ReportOptions holds options for the report command.
type ReportOptions struct {
	Date    string
	Archive string
	JSON    bool
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	opts := &ReportOptions{}
	cmd := &cobra.Command{
		Use:   "report <dataset>",
		Short: "Show a persisted validation report",
		Long: `Show the latest validation report for a dataset, or one archival
run with --archive. The date defaults to today.`,
		Example: `  # Latest report for today's transactions run
  veristat report transactions

  # A past day's report
  veristat report transactions --date 2026-03-01

  # One specific archived run
  veristat report transactions --archive results_092653.json

  # Raw JSON for scripting
  veristat report transactions --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store := cmdCtx.ResultsStore()

			date := opts.Date
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}

			var r *report.Report
			var err error
			if opts.Archive != "" {
				r, err = store.LoadArchive(date, args[0], opts.Archive)
			} else {
				r, err = store.Latest(date, args[0])
			}
			if err != nil {
				return err
			}

			if opts.JSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}

			printStoredReport(cmd, r)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Report date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&opts.Archive, "archive", "", "Archival file name instead of the latest report")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the raw report JSON")
	return cmd
}

func printStoredReport(cmd *cobra.Command, r *report.Report) {
	out := cmd.OutOrStdout()

	status := "PASSED"
	if !r.Success {
		status = "FAILED"
	}
	fmt.Fprintf(out, "Validation %s: %s against %s at %s\n",
		status, r.DatasetName, r.SuiteName, r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(out, "Checks: %d evaluated, %d passed, %d failed (%.2f%% success)\n",
		r.Statistics.Evaluated, r.Statistics.Successful,
		r.Statistics.Unsuccessful, r.Statistics.SuccessPercent)

	if len(r.FailedChecks) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Check", "Category", "Failed Rows", "Failure %"})
	for _, fc := range r.FailedChecks {
		t.AppendRow(table.Row{
			fc.CheckName, fc.CheckType, fc.FailedRows,
			fmt.Sprintf("%.2f", fc.FailurePercentage),
		})
	}
	t.Render()
}
