package main

import (
	"github.com/aretw0/flowboard/internal/presentation/tui"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the node types of the palette",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printMarkdown(cmd, tui.CatalogMarkdown(registry.Builtin().Types()))
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
