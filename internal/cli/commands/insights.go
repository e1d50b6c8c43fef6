package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/internal/llm"
	"github.com/veristat-labs/veristat/pkg/report"
)

// newLLMClient builds a chat client from the configured LLM section.
func newLLMClient(cmdCtx *CommandContext) *llm.Client {
	var cfg llm.Config
	if cmdCtx.Cfg.LLM != nil {
		cfg = *cmdCtx.Cfg.LLM
	}
	return llm.NewClient(cfg, cmdCtx.Logger)
}

// loadReportForDay resolves the latest report for a dataset and date,
// defaulting the date to today.
func loadReportForDay(cmdCtx *CommandContext, dataset, date string) (*report.Report, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return cmdCtx.ResultsStore().Latest(date, dataset)
}

// NewInsightsCommand creates the insights command.
func NewInsightsCommand() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "insights <dataset>",
		Short: "Explain a report's failed checks with the configured model",
		Long: `Load the latest validation report for a dataset and ask the
configured chat model to explain each failed check: probable causes,
impact level, and recommended actions. Output is JSON keyed by check
name.`,
		Example: `  veristat insights transactions
  veristat insights transactions --date 2026-03-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			r, err := loadReportForDay(cmdCtx, args[0], date)
			if err != nil {
				return err
			}
			if r.Success {
				fmt.Fprintln(cmd.OutOrStdout(), "All checks passed; nothing to explain.")
				return nil
			}

			insights, err := newLLMClient(cmdCtx).Insights(cmd.Context(), r)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(insights)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Report date, YYYY-MM-DD (default: today)")
	return cmd
}

// NewFixesCommand creates the fixes command.
func NewFixesCommand() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "fixes <dataset>",
		Short: "Suggest fixes for a report's failed checks",
		Long: `Load the latest validation report for a dataset and ask the
configured chat model to propose a remediation for each failed check.
Output is JSON keyed by check name.`,
		Example: `  veristat fixes transactions
  veristat fixes transactions --date 2026-03-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			r, err := loadReportForDay(cmdCtx, args[0], date)
			if err != nil {
				return err
			}
			if r.Success {
				fmt.Fprintln(cmd.OutOrStdout(), "All checks passed; nothing to fix.")
				return nil
			}

			fixes, err := newLLMClient(cmdCtx).Fixes(cmd.Context(), r)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(fixes)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Report date, YYYY-MM-DD (default: today)")
	return cmd
}
