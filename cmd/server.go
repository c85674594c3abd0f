package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vzahanych/aeroapi-demo-app/internal/aggregator"
	"github.com/vzahanych/aeroapi-demo-app/internal/server"
	"go.uber.org/zap"
)

func serverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the AeroAPI demo HTTP server",
		Long:  `Start the HTTP server exposing airport, operator and flight lookups, airport overviews and local reference data search, with request logging, tracing and metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, a)
		},
	}
}

func runServer(cmd *cobra.Command, a *app) error {
	cfg := a.cfg
	log := a.log

	if cfg.AeroAPI.APIKey == "" {
		log.Warn("No AeroAPI key configured; upstream calls will fail until ADA_AEROAPI_API_KEY is set")
	}

	log.Info("Starting AeroAPI demo server",
		zap.String("config_path", a.configPath),
		zap.String("environment", cfg.Environment),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	httpMetrics, metrics := server.NewMetrics(log)
	client := a.newClient(metrics)

	agg := aggregator.NewAggregator(&cfg.Aggregator, client, log.Named("aggregator"), a.tele)
	agg.SetMetricsRecorder(metrics)

	srv := server.NewServer(cfg.Server, server.Deps{
		API:      client,
		Overview: agg,
		Refs:     a.cache,
		Metrics:  metrics,
		HTTP:     httpMetrics,
	}, log, a.tele)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
