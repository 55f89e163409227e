package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/adapters/mcp"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/session"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [quiz]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the quiz engine as an MCP server, so AI agents can drive runs as tools.

Supported transports:
- stdio (default): Standard Input/Output, for local process integration.
- sse: Server-Sent Events over HTTP, for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		quiz, err := loadQuiz(cmd, args)
		if err != nil {
			log.Fatalf("Error loading quiz: %v", err)
		}

		logger := logging.New(slog.LevelDebug)
		slog.SetDefault(logger)

		engine, err := espalier.New(quiz, espalier.WithLogger(logger))
		if err != nil {
			log.Fatalf("Error initializing engine: %v", err)
		}

		srv := mcp.NewServer(engine, session.NewManager(memory.NewStore()))

		switch transport {
		case "stdio":
			// Keep logs off Stdout so they don't corrupt JSON-RPC.
			log.SetOutput(os.Stderr)
			slog.Info("Starting Espalier MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting Espalier MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("MCP server execution failed", "err", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
