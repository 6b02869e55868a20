package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/erules-cli/internal/adapters/driven/watch"
	"github.com/custodia-labs/erules-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/erules-cli/internal/logger"
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

With --watch, the server watches the configured corpus file and flags
tool results as stale when the file changes after the last build. The
index is never rebuilt automatically.

Examples:
  # Stdio mode (default, for Claude Desktop)
  erules mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  erules mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "erules": {
        "command": "/path/to/erules",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("watch", false, "flag results as stale when the corpus file changes")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watchFlag, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	ports := &mcp.Ports{
		Search:     searchService,
		Catalog:    catalogService,
		Chain:      chainService,
		Validation: validationService,
	}

	if watchFlag {
		if settings.CorpusPath == "" {
			return fmt.Errorf("--watch needs corpus_path in the config (set by 'erules build <corpus>')")
		}
		watcher, err := watch.NewCorpusWatcher(settings.CorpusPath)
		if err != nil {
			return fmt.Errorf("starting corpus watcher: %w", err)
		}
		defer watcher.Close()
		ports.Stale = watcher.Stale
		logger.Info("watching %s for changes", settings.CorpusPath)
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
