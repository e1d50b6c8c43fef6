package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/veristat-labs/veristat/internal/llm"
	"github.com/veristat-labs/veristat/pkg/dataset"
	"github.com/veristat-labs/veristat/pkg/report"
	"github.com/veristat-labs/veristat/pkg/suite"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Name string
	Save bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <dataset>",
		Short: "Generate a starter rule suite from a dataset",
		Long: `Profile a dataset and derive a starter rule suite: schema and volume
checks for the table, plus per-column checks picked from the observed
values. The suite is printed as YAML; --save writes it into the suites
directory for review.`,
		Example: `  # Print a generated suite
  veristat generate data/raw/2026-03-14/transactions.csv

  # Write it to the suites directory under the conventional name
  veristat generate transactions.csv --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			ds, err := dataset.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			name := opts.Name
			if name == "" {
				name = report.DatasetName(args[0]) + "_suite"
			}
			s := llm.GenerateSuite(ds, name)

			if opts.Save {
				path, err := suite.Save(cmdCtx.Cfg.SuitesDir, s)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Suite written to %s\n", path)
				return nil
			}

			data, err := yaml.Marshal(s)
			if err != nil {
				return fmt.Errorf("encode suite: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Suite name (default: <dataset>_suite)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Write the suite into the suites directory")
	return cmd
}
