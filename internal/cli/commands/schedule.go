package commands

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// ScheduleOptions holds options for the schedule command.
type ScheduleOptions struct {
	Cron  string
	Suite string
	Alert bool
}

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand() *cobra.Command {
	opts := &ScheduleOptions{}
	cmd := &cobra.Command{
		Use:   "schedule <dataset>",
		Short: "Validate a dataset on a cron schedule",
		Long: `Run validation for a dataset on a cron schedule, persisting each
report. With --alert, failures are delivered to the configured alert
channels after each run. Runs until interrupted.`,
		Example: `  # Every day at 06:00
  veristat schedule data/raw/latest/transactions.csv --cron "0 6 * * *"

  # Hourly with alerting
  veristat schedule transactions.csv --cron "@hourly" --alert`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			datasetPath := args[0]

			suiteName := opts.Suite
			if suiteName == "" {
				suiteName = defaultSuiteName(datasetPath)
			}
			if opts.Alert && cmdCtx.Cfg.Alerts == nil {
				return fmt.Errorf("--alert requires alert channels in the configuration")
			}

			eng, cleanup, err := cmdCtx.NewEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			c := cron.New()
			_, err = c.AddFunc(opts.Cron, func() {
				result, err := eng.Validate(ctx, datasetPath, suiteName, true)
				if err != nil {
					cmdCtx.Logger.Error("scheduled validation failed to run",
						"dataset", datasetPath, "error", err)
					return
				}
				printReport(cmd, result)
				if opts.Alert {
					dispatchScheduledAlert(cmd, cmdCtx, result)
				}
			})
			if err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", opts.Cron, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled validation of %s (%s) at %q\n",
				datasetPath, suiteName, opts.Cron)

			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Cron, "cron", "0 6 * * *", "Cron expression for run times")
	cmd.Flags().StringVarP(&opts.Suite, "suite", "s", "", "Suite name (default: <dataset>_suite)")
	cmd.Flags().BoolVar(&opts.Alert, "alert", false, "Dispatch alerts after each run")
	return cmd
}
