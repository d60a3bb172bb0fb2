package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/aretw0/flowboard"
	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the flowboard version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := strings.TrimSpace(flowboard.Version)
		if versionShort {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "flowboard version %s (%s %s/%s)\n",
			v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return err
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}
