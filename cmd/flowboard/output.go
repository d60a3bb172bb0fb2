package main

import (
	"fmt"
	"os"

	"github.com/aretw0/flowboard/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// printMarkdown renders md with glamour when stdout is a terminal.
func printMarkdown(cmd *cobra.Command, md string) error {
	styled := false
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		styled = tui.IsTerminal(f)
	}
	out, err := tui.NewRenderer(styled)(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
