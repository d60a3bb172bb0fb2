package main

import (
	"context"

	"github.com/aretw0/flowboard/internal/cli"
	"github.com/aretw0/flowboard/internal/config"
	"github.com/aretw0/flowboard/internal/presentation/tui"
	"github.com/aretw0/flowboard/pkg/dag"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <pipeline-file>",
	Short: "Submit a pipeline file to the validator",
	Long: `Reads a pipeline (JSON snapshot or YAML) and posts it to the validator.
With --local the verdict is computed in process.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, validatorOverride(cmd))
		if err != nil {
			return err
		}
		g, err := cli.ReadPipeline(args[0])
		if err != nil {
			return err
		}
		local, _ := cmd.Flags().GetBool("local")

		res, err := parsePipeline(cmd.Context(), app, g, local)
		if err != nil {
			return err
		}
		return printMarkdown(cmd, tui.ResultMarkdown(res))
	},
}

func parsePipeline(ctx context.Context, app *cli.App, g domain.Graph, local bool) (domain.PipelineResult, error) {
	if local {
		return dag.Analyze(g), nil
	}
	return app.Client.Parse(ctx, g)
}

func validatorOverride(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		if cmd.Flags().Changed("validator") {
			cfg.Validator.URL, _ = cmd.Flags().GetString("validator")
		}
	}
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().String("validator", "", "Validator base URL (overrides validator.url)")
	submitCmd.Flags().Bool("local", false, "Analyze in process instead of calling the validator")
}
