package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/pkg/check"
	_ "github.com/veristat-labs/veristat/pkg/check/checks"
)

// NewChecksCommand creates the checks command.
func NewChecksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List available check types",
		Long:  `List every registered check type with its category and a short description.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Check", "Category", "Description"})
			for _, c := range check.All() {
				t.AppendRow(table.Row{c.Name(), c.Category(), c.Description()})
			}
			t.Render()
			return nil
		},
	}
}
