package main

import (
	"net/http"
	"time"

	"github.com/aretw0/flowboard/internal/cli"
	"github.com/aretw0/flowboard/internal/config"
	"github.com/aretw0/flowboard/pkg/adapters/validator"
	"github.com/spf13/cobra"
)

var validatorCmd = &cobra.Command{
	Use:   "validator",
	Short: "Start the pipeline validator service",
	Long: `Serves POST /pipelines/parse: counts the nodes and edges of a submitted
pipeline and reports whether it is a directed acyclic graph.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, func(cfg *config.Config) {
			if cmd.Flags().Changed("addr") {
				cfg.Validator.Addr, _ = cmd.Flags().GetString("addr")
			}
		})
		if err != nil {
			return err
		}
		cfg := app.Config

		srv := &http.Server{
			Addr: cfg.Validator.Addr,
			Handler: validator.NewHandler(
				validator.WithAllowedOrigins(cfg.Validator.AllowedOrigins...),
				validator.WithLogger(app.Logger),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.Serve(sigCtx, srv, cfg.Server.ShutdownTimeout, app.Logger)
	},
}

func init() {
	rootCmd.AddCommand(validatorCmd)
	validatorCmd.Flags().String("addr", "", "Listen address (overrides validator.addr)")
}
