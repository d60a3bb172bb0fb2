package main

import (
	"fmt"

	"github.com/aretw0/flowboard/internal/cli"
	"github.com/aretw0/flowboard/internal/lint"
	"github.com/aretw0/flowboard/internal/presentation/graph"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <pipeline-file>",
	Short: "Render a pipeline as a Mermaid flowchart",
	Long:  `Prints a Mermaid graph of the pipeline. Nodes with lint errors are highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := cli.ReadPipeline(args[0])
		if err != nil {
			return err
		}
		selected, _ := cmd.Flags().GetString("select")

		overlay := &graph.GraphOverlay{Selected: selected}
		seen := map[string]bool{}
		for _, issue := range lint.Graph(g, registry.Builtin()).Errors() {
			if issue.NodeID != "" && !seen[issue.NodeID] {
				seen[issue.NodeID] = true
				overlay.Flagged = append(overlay.Flagged, issue.NodeID)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("select", "", "Node id to highlight as selected")
}
