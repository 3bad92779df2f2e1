package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/aura"
	httpAdapter "github.com/aretw0/aura/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the agent in server mode, exposing ask (JSON) and stream (Server-Sent Events) endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, cleanup, err := buildApp(ctx, cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithInfo(httpAdapter.Info{
				Name:        cfg.API.Name,
				Description: cfg.API.Description,
				Version:     aura.Version,
				APIVersion:  cfg.API.Version,
			}),
		}
		if app.Metrics != nil {
			opts = append(opts, httpAdapter.WithMetrics(app.Metrics))
		}
		handler, err := httpAdapter.NewHandler(app.Agent, opts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Aura Server", "addr", srv.Addr, "provider", cfg.LLM.Provider, "prompts", cfg.Prompts.Source)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Aura Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides server.addr)")
}
