package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/prop-ensemble/internal/ensemble"
	"github.com/yourusername/prop-ensemble/internal/fixtures"
	"github.com/yourusername/prop-ensemble/internal/health"
	"github.com/yourusername/prop-ensemble/internal/metrics"
	"github.com/yourusername/prop-ensemble/internal/models"
	"github.com/yourusername/prop-ensemble/internal/service"
)

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port, overrides server.port")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP scoring API with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		port := cfg.Server.Port
		if servePort > 0 {
			port = servePort
		}

		handler := service.NewHandler(scoring, service.HandlerConfig{
			RequestsPerSecond: cfg.Server.RequestsPerSecond,
			Burst:             cfg.Server.Burst,
			MaxBatchSize:      cfg.Server.MaxBatchSize,
		}, appLogger)

		handlers := handler.Routes()
		if cfg.Metrics.Enabled {
			handlers[cfg.Metrics.Path] = metrics.Handler()
		}

		server := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        port,
			Logger:      appLogger,
			Checks: map[string]health.Check{
				"ensemble": ensembleSelfCheck(orchestrator),
			},
			Handlers: handlers,
		})
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		server.SetReady(true)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			appLogger.WithField("signal", sig.String()).Info("Received shutdown signal")
		case <-ctx.Done():
		}

		server.SetReady(false)
		if err := server.Shutdown(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	},
}

// ensembleSelfCheck scores a fixed synthetic prop and fails if any model
// that should estimate it degrades
func ensembleSelfCheck(o *ensemble.Orchestrator) health.Check {
	input := fixtures.Input(fixtures.DefaultGameLogSpec(), "self-check", 24.5)
	input.MarketOdds = models.Float64(1.91)

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result := o.Evaluate(input)
		if degraded := result.DegradedModels(); len(degraded) > 0 {
			return fmt.Errorf("degraded models on reference input: %v", degraded)
		}
		return nil
	}
}
