package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/internal/alert"
	"github.com/veristat-labs/veristat/internal/engine"
)

// AlertsOptions holds options for the alerts command.
type AlertsOptions struct {
	Date         string
	WithInsights bool
	WithFixes    bool
}

// NewAlertsCommand creates the alerts command.
func NewAlertsCommand() *cobra.Command {
	opts := &AlertsOptions{}
	cmd := &cobra.Command{
		Use:   "alerts <dataset>",
		Short: "Deliver a report to the configured alert channels",
		Long: `Load the latest validation report for a dataset and deliver it to
every alert channel in the configuration (email, Slack, webhook).
Passing runs are suppressed unless notify_on_success is set.

With --with-insights or --with-fixes, the configured chat model is
asked to annotate each failed check before delivery.`,
		Example: `  veristat alerts transactions
  veristat alerts transactions --date 2026-03-01 --with-insights`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			if cmdCtx.Cfg.Alerts == nil {
				return fmt.Errorf("no alert channels configured")
			}

			r, err := loadReportForDay(cmdCtx, args[0], opts.Date)
			if err != nil {
				return err
			}

			n := alert.Notification{Report: r}
			if !r.Success && (opts.WithInsights || opts.WithFixes) {
				client := newLLMClient(cmdCtx)
				if opts.WithInsights {
					insights, err := client.Insights(cmd.Context(), r)
					if err != nil {
						cmdCtx.Logger.Warn("insights unavailable for alert", "error", err)
					}
					n.Insights = make(map[string]string, len(insights))
					for name, insight := range insights {
						n.Insights[name] = insight.Issue
					}
				}
				if opts.WithFixes {
					fixes, err := client.Fixes(cmd.Context(), r)
					if err != nil {
						cmdCtx.Logger.Warn("fixes unavailable for alert", "error", err)
					}
					n.Fixes = make(map[string]string, len(fixes))
					for name, fix := range fixes {
						n.Fixes[name] = fix.FixApproach
					}
				}
			}

			d := alert.New(*cmdCtx.Cfg.Alerts, cmdCtx.Logger)
			if err := d.Dispatch(cmd.Context(), n); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Alerts dispatched.")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Report date, YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&opts.WithInsights, "with-insights", false, "Annotate failed checks with model insights")
	cmd.Flags().BoolVar(&opts.WithFixes, "with-fixes", false, "Annotate failed checks with suggested fixes")
	return cmd
}

// dispatchScheduledAlert delivers one scheduled run's report, logging
// rather than failing the scheduler on delivery errors.
func dispatchScheduledAlert(cmd *cobra.Command, cmdCtx *CommandContext, result *engine.RunResult) {
	d := alert.New(*cmdCtx.Cfg.Alerts, cmdCtx.Logger)
	if err := d.Dispatch(cmd.Context(), alert.Notification{Report: result.Report}); err != nil {
		cmdCtx.Logger.Error("alert dispatch failed", "error", err)
	}
}
