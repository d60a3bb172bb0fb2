package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/flowboard"
	"github.com/aretw0/flowboard/internal/cli"
	"github.com/aretw0/flowboard/internal/config"
	"github.com/aretw0/flowboard/internal/presentation/tui"
	httpAdapter "github.com/aretw0/flowboard/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor HTTP API",
	Long: `Starts the editor service: session scoped graph editing over a JSON API,
server-sent graph events, Prometheus metrics and pipeline submission.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, func(cfg *config.Config) {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
			}
		})
		if err != nil {
			return err
		}
		cfg := app.Config

		tui.PrintBanner(cmd.ErrOrStderr())

		handler := httpAdapter.NewHandler(app.Sessions, app.Registry,
			httpAdapter.WithVersion(flowboard.Version),
			httpAdapter.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
			httpAdapter.WithMetrics(app.Metrics, app.Gatherer),
			httpAdapter.WithLogger(app.Logger),
		)
		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		app.Logger.Info("starting editor service",
			"addr", cfg.Server.Addr, "storage", cfg.Storage.Backend, "validator", cfg.Validator.URL)
		serveErr := cli.Serve(sigCtx, srv, cfg.Server.ShutdownTimeout, app.Logger)
		if sig := sigCtx.Signal(); sig != nil {
			app.Logger.Info("signal received", "signal", sig.String())
		}

		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			app.Logger.Error("failed to persist sessions", "error", err)
		}
		return serveErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
