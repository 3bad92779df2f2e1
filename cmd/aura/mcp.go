package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/aura/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the agent as an MCP Server, exposing the 'ask' and 'stream' tools and the
aura://graph resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, cleanup, err := buildApp(ctx, cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		srv := mcp.NewServer(app.Agent, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting Aura MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			addr := fmt.Sprintf(":%d", port)
			baseURL := fmt.Sprintf("http://localhost:%d", port)
			if err := srv.ServeSSE(ctx, addr, baseURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("MCP Server execution failed: %w", err)
			}
			slog.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().IntP("port", "p", 8081, "Port for the sse transport")
}
