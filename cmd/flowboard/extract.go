package main

import (
	"io"
	"strings"

	"github.com/aretw0/flowboard/internal/presentation/tui"
	"github.com/aretw0/flowboard/pkg/template"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "List the {{ variables }} of a text template",
	Long:  `Prints the variables a text node would expose as input handles. Reads stdin when no text is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(data)
		}
		return printMarkdown(cmd, tui.VariablesMarkdown(template.Extract(text)))
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
