package main

import (
	"context"
	"fmt"

	"github.com/aretw0/flowboard/internal/cli"
	"github.com/aretw0/flowboard/internal/lint"
	"github.com/aretw0/flowboard/internal/presentation/tui"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <pipeline-file>",
	Short: "Lint and resubmit a pipeline file whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, validatorOverride(cmd))
		if err != nil {
			return err
		}
		local, _ := cmd.Flags().GetBool("local")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		tui.PrintBanner(cmd.ErrOrStderr())
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		w := cli.NewPipelineWatcher(args[0], cli.WithDebounce(debounce), cli.WithWatchLogger(app.Logger))
		app.Logger.Info("watching pipeline", "path", args[0])

		err = w.Run(sigCtx, func(ctx context.Context, g domain.Graph, err error) {
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), ">>> %v\n", err)
				return
			}
			report := lint.Graph(g, app.Registry)
			if len(report.Issues) > 0 {
				_ = printMarkdown(cmd, tui.LintMarkdown(report))
			}
			if report.Err() != nil {
				return
			}
			res, err := parsePipeline(ctx, app, g, local)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), ">>> %v\n", err)
				return
			}
			_ = printMarkdown(cmd, tui.ResultMarkdown(res))
		})
		if sig := sigCtx.Signal(); sig != nil {
			app.Logger.Info("stopping watcher", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("validator", "", "Validator base URL (overrides validator.url)")
	watchCmd.Flags().Bool("local", false, "Analyze in process instead of calling the validator")
	watchCmd.Flags().Duration("debounce", cli.DefaultDebounce, "Quiet period before a change is processed")
}
