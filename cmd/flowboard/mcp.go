package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/flowboard"
	"github.com/aretw0/flowboard/internal/cli"
	"github.com/aretw0/flowboard/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the editor as MCP tools so agents can build and submit pipelines.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, nil)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		baseURL, _ := cmd.Flags().GetString("base-url")

		srv := mcp.NewServer(app.Sessions, app.Registry, flowboard.Version, app.Logger)
		defer func() {
			if err := app.Close(context.Background()); err != nil {
				app.Logger.Error("failed to persist sessions", "error", err)
			}
		}()

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			app.Logger.Info("starting MCP server", "transport", transport)
			return srv.ServeStdio()
		case "sse":
			if baseURL == "" {
				baseURL = "http://" + addr
			}
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()
			app.Logger.Info("starting MCP server", "transport", transport, "addr", addr)
			return srv.ServeSSE(sigCtx, addr, baseURL)
		default:
			return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().String("addr", "localhost:8081", "Listen address for the sse transport")
	mcpCmd.Flags().String("base-url", "", "Public base URL for the sse transport")
}
