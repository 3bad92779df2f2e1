package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/aura"
	"github.com/aretw0/aura/internal/cli"
	"github.com/aretw0/aura/internal/config"
	"github.com/aretw0/aura/internal/logging"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/observability"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "Aura is a workflow agent answering natural-language requests",
	Long: `Aura runs every question through a small workflow graph (greeting, then agent)
and answers over HTTP, Server-Sent Events, MCP or the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if domain.IsValidation(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().StringToString("prompt", nil, "Template override as id=text (repeatable), e.g. --prompt greeting='Say hi.'")
}

// loadConfig reads the configuration and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format, _ = cmd.Flags().GetString("log-format")
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(level, cfg.Log.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// buildApp validates the configuration, installs tracing and wires the agent.
// The returned cleanup flushes spans and closes connections.
func buildApp(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*cli.App, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: aura.Version,
	})
	if err != nil {
		return nil, nil, err
	}

	overrides, _ := cmd.Flags().GetStringToString("prompt")
	app, err := cli.Build(ctx, cfg, logger, overrides)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, nil, err
	}

	cleanup := func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close template source", "error", err)
		}
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}
	return app, cleanup, nil
}
