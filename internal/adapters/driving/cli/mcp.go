package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/appsec-mcp/internal/adapters/driving/mcp"
	"github.com/custodia-labs/appsec-mcp/internal/logger"
	"github.com/custodia-labs/appsec-mcp/internal/observability"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP
  - Prometheus metrics at /metrics

Changes to config.toml are picked up while the server runs: search limits
apply to the next tool call, connection settings after a restart.

Examples:
  # Stdio mode (default, for Claude Desktop)
  appsec-mcp mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  appsec-mcp mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "appsec": {
        "command": "/path/to/appsec-mcp",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

// isTerminal reports whether stdin is interactive. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := app.settings.Get()
	if err != nil {
		return err
	}
	if err := settings.Connection.Validate(); err != nil {
		logger.Warn("%v; tools will report the missing settings until they are configured", err)
	}

	shutdown, err := observability.SetupTracing(ctx, settings.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("flushing traces: %v", err)
		}
	}()

	server, err := mcp.NewServer(app.ports)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	watchConfig(ctx)

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s/mcp\n", addr)
		return server.RunHTTP(ctx, addr, settings.Server.AllowedOrigins)
	}

	if isTerminal() {
		logger.Warn("stdin is a terminal; the MCP server expects JSON-RPC from an MCP client. Use --port for HTTP.")
	}
	return server.Run(ctx)
}

// watchConfig reloads the configuration file in the background until ctx
// is cancelled.
func watchConfig(ctx context.Context) {
	if app.watcher == nil {
		return
	}
	go func() {
		err := app.watcher.Watch(ctx, func(err error) {
			if err != nil {
				logger.Warn("reloading configuration: %v", err)
				return
			}
			logger.Info("configuration reloaded; search limits now %+v", app.settings.SearchLimits())
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("configuration watcher stopped: %v", err)
		}
	}()
}
