package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/richfrem/quoteagent"
	"github.com/richfrem/quoteagent/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the quote agent as MCP tools (process_turn, reset_session) and the
catalog as a resource, so assistants can run an intake on a customer's behalf.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		log.SetOutput(os.Stderr)
		backend, _, logger := loadBackend(ctx, cmd, false)
		defer backend.Close()

		srv := mcp.NewServer(backend.Agent, quoteagent.Version, logger)

		switch transport {
		case "stdio":
			logger.Info("Starting quote agent MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			logger.Info("Starting quote agent MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
			logger.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
