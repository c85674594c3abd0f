package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/aeroapi-demo-app/internal/config"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/handlers"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/middlewares"
	"github.com/vzahanych/aeroapi-demo-app/pkg/telemetry"
	"go.uber.org/zap"
)

// Deps are the collaborators the routes call. Metrics, when set, is also the recorder the
// caller should hand to the SDK client and the aggregator.
type Deps struct {
	API      handlers.AeroAPI
	Overview handlers.OverviewProvider
	Refs     handlers.ReferenceLookup
	Metrics  *handlers.MetricsHandler
	HTTP     *middlewares.HTTPMetrics
}

type Server struct {
	engine *gin.Engine
	server *http.Server
	cfg    config.ServerConfig
	deps   Deps
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

// NewMetrics builds the HTTP and application metrics pair served on /metrics.
func NewMetrics(logger *zap.Logger) (*middlewares.HTTPMetrics, *handlers.MetricsHandler) {
	httpMetrics := middlewares.NewHTTPMetrics()
	return httpMetrics, handlers.NewMetricsHandler(logger, httpMetrics)
}

func NewServer(cfg config.ServerConfig, deps Deps, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	if deps.HTTP == nil || deps.Metrics == nil {
		deps.HTTP, deps.Metrics = NewMetrics(logger)
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, true, "/health", "/health/live", "/health/ready", "/metrics"))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(deps.HTTP.Handler())

	s := &Server{
		engine: engine,
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		tele:   tele,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	airports := handlers.NewAirportHandler(s.deps.API, s.deps.Overview, s.logger)
	flights := handlers.NewFlightHandler(s.deps.API, s.logger)
	operators := handlers.NewOperatorHandler(s.deps.API, s.logger)
	lookup := handlers.NewLookupHandler(s.deps.Refs, s.logger)
	health := handlers.NewHealthHandler(s.deps.Refs, s.logger)

	// Business endpoints
	v1 := s.engine.Group("/v1")
	v1.GET("/airports/nearby", airports.GetNearby)
	v1.GET("/airports/:code", airports.GetAirport)
	v1.GET("/airports/:code/delays", airports.GetDelays)
	v1.GET("/airports/:code/overview", airports.GetOverview)
	v1.GET("/operators/:code", operators.GetOperator)
	v1.GET("/flights/:ident", flights.GetFlights)
	v1.GET("/flights/:ident/track", flights.GetTrack)
	v1.GET("/flights/:ident/map", flights.GetMap)
	v1.GET("/lookup/airports", lookup.Airports)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", s.deps.Metrics.ServeMetrics)
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
