package aggregator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vzahanych/aeroapi-demo-app/internal/config"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"github.com/vzahanych/aeroapi-demo-app/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Overview part names, used as keys of AirportOverview.Errors.
const (
	PartAirport      = "airport"
	PartDelays       = "delays"
	PartFlightCounts = "flight_counts"
	PartWeather      = "weather"
)

// AirportSource is the subset of *aeroapi.Client the aggregator calls.
type AirportSource interface {
	GetAirport(ctx context.Context, code string) (aeroapi.Airport, error)
	GetAirportDelays(ctx context.Context, code string) (aeroapi.AirportDelays, error)
	GetAirportFlightCounts(ctx context.Context, code string) (aeroapi.AirportFlightCounts, error)
	GetWeatherObservations(ctx context.Context, r aeroapi.WeatherObservationsRequest) (aeroapi.WeatherObservationsResponse, error)
}

// AirportOverview combines airport info with the optional parts that could be fetched.
// A part that failed is absent and its error is listed in Errors.
type AirportOverview struct {
	Airport      aeroapi.Airport              `json:"airport"`
	Delays       *aeroapi.AirportDelays       `json:"delays,omitempty"`
	FlightCounts *aeroapi.AirportFlightCounts `json:"flight_counts,omitempty"`
	Weather      *aeroapi.WeatherObservation  `json:"weather,omitempty"`
	Errors       map[string]string            `json:"errors,omitempty"`
	Timestamp    string                       `json:"timestamp"`
}

type CacheEntry struct {
	Data      *AirportOverview
	Timestamp time.Time
}

type Aggregator struct {
	source   AirportSource
	cache    map[string]*CacheEntry
	mutex    sync.RWMutex
	cacheTTL time.Duration
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  MetricsRecorder
	now      func() time.Time
}

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordCacheHit(ctx context.Context, cacheType string)
	RecordCacheMiss(ctx context.Context, cacheType string)
}

func NewAggregator(cfg *config.AggregatorConfig, source AirportSource, logger *zap.Logger, tele *telemetry.Telemetry) *Aggregator {
	return &Aggregator{
		source:   source,
		cache:    make(map[string]*CacheEntry),
		cacheTTL: cfg.CacheTTLDuration(),
		logger:   logger,
		tele:     tele,
		now:      time.Now,
	}
}

// SetMetricsRecorder sets the metrics recorder for the aggregator
func (a *Aggregator) SetMetricsRecorder(metrics MetricsRecorder) {
	a.metrics = metrics
}

func (a *Aggregator) GetAirportOverview(ctx context.Context, code string) (*AirportOverview, error) {
	tracer := a.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "aggregator.GetAirportOverview")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, &aeroapi.MissingIdentifierError{Request: "GetAirportOverview"}
	}
	span.SetAttributes(attribute.String("airport.code", code))

	reqLogger := a.logger.With(zap.String("airport", code))

	if cached := a.getFromCache(code); cached != nil {
		reqLogger.Debug("Cache hit")
		span.SetAttributes(attribute.Bool("cache_hit", true))

		if a.metrics != nil {
			a.metrics.RecordCacheHit(ctx, "airport_overview")
		}

		return cached, nil
	}

	span.SetAttributes(attribute.Bool("cache_hit", false))

	if a.metrics != nil {
		a.metrics.RecordCacheMiss(ctx, "airport_overview")
	}

	data, err := a.fetchOverview(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		reqLogger.Warn("Failed to build airport overview", zap.Error(err))
		return nil, err
	}

	a.setCache(code, data)
	span.SetAttributes(attribute.Int("failed_parts", len(data.Errors)))

	reqLogger.Info("Airport overview fetched",
		zap.Int("failed_parts", len(data.Errors)))

	return data, nil
}

// fetchOverview runs the four calls concurrently. Only the airport itself is required; its
// failure cancels the other calls.
func (a *Aggregator) fetchOverview(ctx context.Context, code string) (*AirportOverview, error) {
	out := &AirportOverview{}
	var mu sync.Mutex
	optional := func(part string, err error, set func()) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[part] = err.Error()
			return
		}
		set()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		airport, err := a.source.GetAirport(gctx, code)
		if err != nil {
			return fmt.Errorf("%s: %w", PartAirport, err)
		}
		mu.Lock()
		out.Airport = airport
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		delays, err := a.source.GetAirportDelays(gctx, code)
		optional(PartDelays, err, func() { out.Delays = &delays })
		return nil
	})
	g.Go(func() error {
		counts, err := a.source.GetAirportFlightCounts(gctx, code)
		optional(PartFlightCounts, err, func() { out.FlightCounts = &counts })
		return nil
	})
	g.Go(func() error {
		resp, err := a.source.GetWeatherObservations(gctx, aeroapi.WeatherObservationsRequest{
			Code:   code,
			Paging: aeroapi.Paging{MaxPages: 1},
		})
		if err == nil && len(resp.Observations) == 0 {
			err = &aeroapi.EmptyResultError{Resource: "weather observations"}
		}
		optional(PartWeather, err, func() { out.Weather = &resp.Observations[0] })
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Timestamp = a.now().UTC().Format(time.RFC3339)
	return out, nil
}

func (a *Aggregator) getFromCache(key string) *AirportOverview {
	if a.cacheTTL <= 0 {
		return nil
	}

	a.mutex.RLock()
	entry, exists := a.cache[key]
	a.mutex.RUnlock()
	if !exists {
		return nil
	}

	if a.now().Sub(entry.Timestamp) > a.cacheTTL {
		a.mutex.Lock()
		if current, ok := a.cache[key]; ok && current == entry {
			delete(a.cache, key)
		}
		a.mutex.Unlock()
		return nil
	}

	return entry.Data
}

func (a *Aggregator) setCache(key string, data *AirportOverview) {
	if a.cacheTTL <= 0 {
		return
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.cache[key] = &CacheEntry{
		Data:      data,
		Timestamp: a.now(),
	}
}

func (a *Aggregator) ClearCache() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.cache = make(map[string]*CacheEntry)
}

func (a *Aggregator) GetCacheStats() map[string]interface{} {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return map[string]interface{}{
		"cache_size": len(a.cache),
		"cache_ttl":  a.cacheTTL.String(),
	}
}
