package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/aeroapi-demo-app/internal/config"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"github.com/vzahanych/aeroapi-demo-app/pkg/logger"
	"github.com/vzahanych/aeroapi-demo-app/pkg/telemetry"
	"go.uber.org/zap"
)

// app carries what every command needs once configuration has been read.
type app struct {
	configPath string
	debug      bool
	showURLs   bool

	cfg   *config.Config
	log   *zap.Logger
	tele  *telemetry.Telemetry
	cache *aeroapi.ReferenceCache
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "aeroapi",
		Short:         "FlightAware AeroAPI client and demo service",
		Long:          `Query FlightAware AeroAPI from the command line, or serve a small HTTP API on top of it backed by local airport, airline and aircraft reference data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initializeServices(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "log raw AeroAPI responses")
	flags.BoolVar(&a.showURLs, "show-urls", false, "log resolved AeroAPI request URLs")

	cmd.AddCommand(
		serverCmd(a),
		airportCmd(a),
		delaysCmd(a),
		flightCmd(a),
		trackCmd(a),
		mapCmd(a),
		operatorCmd(a),
		lookupCmd(a),
	)

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	a := &app{}

	go func() {
		sig := <-sigChan
		if a.log != nil {
			a.log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		}
		cancel()
	}()

	if err := rootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) initializeServices(ctx context.Context) error {
	// 1. Load config
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.debug {
		cfg.AeroAPI.Debug = true
	}
	if a.showURLs {
		cfg.AeroAPI.ShowHTTPRequestURLs = true
	}

	// 2. Set config
	// Having config in atomic allows changing it during runtime
	config.SetConfig(cfg)
	a.cfg = cfg

	// 3. Initialize logger
	a.log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 4. Telemetry is optional; a broken exporter only costs the traces
	a.tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		a.log.Warn("Failed to initialize telemetry", zap.Error(err))
	}

	// 5. Reference data
	a.cache = aeroapi.NewReferenceCache()
	if cfg.RefData.Dir != "" {
		err = a.cache.Load(os.DirFS(cfg.RefData.Dir))
	} else {
		err = a.cache.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	airports, airlines, aircraft := a.cache.Counts()
	a.log.Debug("Reference data loaded",
		zap.String("dir", cfg.RefData.Dir),
		zap.Int("airports", airports),
		zap.Int("airlines", airlines),
		zap.Int("aircraft", aircraft))

	return nil
}

// newClient builds an SDK client from the loaded configuration. metrics may be nil.
func (a *app) newClient(metrics aeroapi.MetricsRecorder) *aeroapi.Client {
	c := a.cfg.AeroAPI
	opts := []aeroapi.Option{
		aeroapi.WithBaseURL(c.BaseURL),
		aeroapi.WithAPIKey(c.APIKey),
		aeroapi.WithTimeout(c.TimeoutDuration()),
		aeroapi.WithLogger(a.log.Named("aeroapi")),
		aeroapi.WithTracer(a.tele.GetTracer()),
		aeroapi.WithCache(a.cache),
		aeroapi.WithDebug(c.Debug),
		aeroapi.WithShowHTTPRequestURLs(c.ShowHTTPRequestURLs),
	}
	if metrics != nil {
		opts = append(opts, aeroapi.WithMetrics(metrics))
	}
	return aeroapi.NewClient(opts...)
}

func (a *app) close() error {
	var err error
	if a.tele != nil {
		err = a.tele.Shutdown(context.Background())
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}
