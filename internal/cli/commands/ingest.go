package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/internal/ingest"
)

// NewIngestCommand creates the ingest command group.
func NewIngestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Land external data into the raw data directory",
		Long: `Ingest a dataset from a local file, an HTTP API, or a SQL database
into the dated raw data tree, ready for validation.`,
	}
	cmd.AddCommand(newIngestFileCommand())
	cmd.AddCommand(newIngestAPICommand())
	cmd.AddCommand(newIngestQueryCommand())
	return cmd
}

func newIngestor(cmd *cobra.Command) *ingest.Ingestor {
	cmdCtx := NewCommandContext(cmd)
	return ingest.New(ingest.Config{
		RawDir: cmdCtx.Cfg.RawDir,
		Logger: cmdCtx.Logger,
	})
}

func newIngestFileCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "file <path>",
		Short:   "Copy a local file into the raw data directory",
		Example: `  veristat ingest file /tmp/export/transactions.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := newIngestor(cmd).FromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Landed %s\n", dest)
			return nil
		},
	}
}

func newIngestAPICommand() *cobra.Command {
	var (
		name       string
		method     string
		recordsKey string
		authType   string
		username   string
		password   string
		token      string
	)
	cmd := &cobra.Command{
		Use:   "api <url>",
		Short: "Fetch JSON records from an HTTP API",
		Example: `  # Bare-array endpoint
  veristat ingest api https://api.example.com/orders --name orders

  # Enveloped response with bearer auth
  veristat ingest api https://api.example.com/v2/events \
    --name events --records-key data --auth bearer --token "$API_TOKEN"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ingest.APIRequest{
				Name:       name,
				URL:        args[0],
				Method:     method,
				RecordsKey: recordsKey,
			}
			if authType != "" {
				req.Auth = &ingest.Auth{
					Type:     authType,
					Username: username,
					Password: password,
					Token:    token,
				}
			}

			dest, err := newIngestor(cmd).FromAPI(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Landed %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Dataset name (required)")
	cmd.Flags().StringVar(&method, "method", "", "HTTP method (default: GET)")
	cmd.Flags().StringVar(&recordsKey, "records-key", "", "Envelope field holding the record array")
	cmd.Flags().StringVar(&authType, "auth", "", "Auth type: basic or bearer")
	cmd.Flags().StringVar(&username, "username", "", "Basic auth username")
	cmd.Flags().StringVar(&password, "password", "", "Basic auth password")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newIngestQueryCommand() *cobra.Command {
	var (
		name   string
		driver string
		dsn    string
	)
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SQL query and land the result set",
		Example: `  # Pull from a DuckDB file
  veristat ingest query "SELECT * FROM orders WHERE day = current_date" \
    --name orders --driver duckdb --dsn warehouse.duckdb

  # Pull from a SQLite database
  veristat ingest query "SELECT id, owner FROM accounts" \
    --name accounts --driver sqlite --dsn app.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := newIngestor(cmd).FromQuery(cmd.Context(), ingest.QueryRequest{
				Name:   name,
				Driver: driver,
				DSN:    dsn,
				Query:  args[0],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Landed %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Dataset name (required)")
	cmd.Flags().StringVar(&driver, "driver", "duckdb", "Database driver: duckdb or sqlite")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Driver-specific connection string")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
