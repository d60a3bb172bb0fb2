package main

import (
	"github.com/aretw0/flowboard/internal/cli"
	"github.com/aretw0/flowboard/internal/lint"
	"github.com/aretw0/flowboard/internal/presentation/tui"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint <pipeline-file>",
	Short: "Check a pipeline file for dangling edges, unknown handles and cycles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := cli.ReadPipeline(args[0])
		if err != nil {
			return err
		}
		report := lint.Graph(g, registry.Builtin())
		if err := printMarkdown(cmd, tui.LintMarkdown(report)); err != nil {
			return err
		}
		return report.Err()
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
