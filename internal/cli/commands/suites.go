package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/pkg/suite"
)

// NewSuitesCommand creates the suites command.
func NewSuitesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suites [name]",
		Short: "List rule suites or show one suite's checks",
		Example: `  # List all suites
  veristat suites

  # Show the checks in one suite
  veristat suites transactions_suite`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			if len(args) == 1 {
				return showSuite(cmd, cmdCtx, args[0])
			}
			return listSuites(cmd, cmdCtx)
		},
	}
	return cmd
}

func listSuites(cmd *cobra.Command, cmdCtx *CommandContext) error {
	names, err := suite.List(cmdCtx.Cfg.SuitesDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintf(out, "No suites found in %s\n", cmdCtx.Cfg.SuitesDir)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Suite", "Checks"})
	for _, name := range names {
		s, err := suite.Load(cmdCtx.Cfg.SuitesDir, name)
		if err != nil {
			t.AppendRow(table.Row{name, fmt.Sprintf("error: %v", err)})
			continue
		}
		t.AppendRow(table.Row{name, len(s.Checks)})
	}
	t.Render()
	return nil
}

func showSuite(cmd *cobra.Command, cmdCtx *CommandContext, name string) error {
	s, err := suite.Load(cmdCtx.Cfg.SuitesDir, name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Suite: %s (%d checks)\n", s.Name, len(s.Checks))

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Check", "Category", "Kwargs"})
	for i, def := range s.Checks {
		t.AppendRow(table.Row{i + 1, def.Type, def.Category, fmt.Sprintf("%v", def.Kwargs)})
	}
	t.Render()
	return nil
}
