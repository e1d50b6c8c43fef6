package commands

import (
	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve validation reports over HTTP",
		Long: `Start a read-only HTTP server exposing persisted reports and run
history, for dashboards and other consumers. Runs until interrupted.`,
		Example: `  veristat serve
  veristat serve --port 9100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)

			hist, err := cmdCtx.OpenHistory()
			if err != nil {
				return err
			}
			defer hist.Close()

			if port == 0 {
				port = cmdCtx.Cfg.GetServeConfig().Port
			}

			srv := server.NewServer(server.Config{
				Results: cmdCtx.ResultsStore(),
				History: hist,
				Port:    port,
				Logger:  cmdCtx.Logger,
			})
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default: from config)")
	return cmd
}
