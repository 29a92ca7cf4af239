package main

import (
	"fmt"

	"github.com/aretw0/tendero/internal/cli"
	"github.com/aretw0/tendero/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Starts tendero as an MCP server so an AI agent can record sales on behalf of
a merchant with the send_message and reset_session tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, _ := cmd.Flags().GetString("transport")
			port, _ := cmd.Flags().GetInt("port")

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			srv := mcp.NewServer(app.Dispatcher, app.Engine,
				mcp.WithLogger(app.Logger),
				mcp.WithAllowedOrigins(app.Config.HTTP.AllowedOrigins...),
			)

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			switch transport {
			case "stdio":
				// Logs go to stderr so they never corrupt JSON-RPC on stdout.
				app.Logger.Info("starting MCP server", "transport", transport)
				return srv.ServeStdio(ctx)
			case "sse":
				app.Logger.Info("starting MCP server", "transport", transport, "port", port)
				return srv.ServeSSE(ctx, port)
			default:
				return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
			}
		},
	}
	cmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
	return cmd
}
