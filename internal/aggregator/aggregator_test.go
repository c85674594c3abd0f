package aggregator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/aeroapi-demo-app/internal/config"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	airportErr  error
	delaysErr   error
	countsErr   error
	weatherErr  error
	noWeather   bool
	airportHits atomic.Int32
	lastWeather aeroapi.WeatherObservationsRequest
	mu          sync.Mutex
}

func (f *fakeSource) GetAirport(ctx context.Context, code string) (aeroapi.Airport, error) {
	f.airportHits.Add(1)
	if f.airportErr != nil {
		return aeroapi.Airport{}, f.airportErr
	}
	return aeroapi.Airport{CodeICAO: code, Name: "Tampa Intl"}, nil
}

func (f *fakeSource) GetAirportDelays(ctx context.Context, code string) (aeroapi.AirportDelays, error) {
	if f.delaysErr != nil {
		return aeroapi.AirportDelays{}, f.delaysErr
	}
	return aeroapi.AirportDelays{Airport: code, Color: "yellow", DelaySecs: 900}, nil
}

func (f *fakeSource) GetAirportFlightCounts(ctx context.Context, code string) (aeroapi.AirportFlightCounts, error) {
	if f.countsErr != nil {
		return aeroapi.AirportFlightCounts{}, f.countsErr
	}
	return aeroapi.AirportFlightCounts{Departed: 12, Enroute: 4}, nil
}

func (f *fakeSource) GetWeatherObservations(ctx context.Context, r aeroapi.WeatherObservationsRequest) (aeroapi.WeatherObservationsResponse, error) {
	f.mu.Lock()
	f.lastWeather = r
	f.mu.Unlock()
	if f.weatherErr != nil {
		return aeroapi.WeatherObservationsResponse{}, f.weatherErr
	}
	if f.noWeather {
		return aeroapi.WeatherObservationsResponse{}, nil
	}
	return aeroapi.WeatherObservationsResponse{
		Observations: []aeroapi.WeatherObservation{
			{AirportCode: r.Code, RawData: "KTPA 151253Z 09005KT 10SM"},
			{AirportCode: r.Code, RawData: "older"},
		},
	}, nil
}

type countingMetrics struct {
	hits, misses atomic.Int32
}

func (m *countingMetrics) RecordCacheHit(ctx context.Context, cacheType string)  { m.hits.Add(1) }
func (m *countingMetrics) RecordCacheMiss(ctx context.Context, cacheType string) { m.misses.Add(1) }

func newTestAggregator(t *testing.T, src AirportSource, ttl int) *Aggregator {
	t.Helper()
	agg := NewAggregator(&config.AggregatorConfig{CacheTTL: ttl}, src, zaptest.NewLogger(t), nil)
	agg.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return agg
}

func TestNewAggregator(t *testing.T) {
	agg := NewAggregator(&config.AggregatorConfig{CacheTTL: 300}, &fakeSource{}, zap.NewNop(), nil)
	require.NotNil(t, agg)
	assert.Equal(t, 5*time.Minute, agg.cacheTTL)
	assert.Equal(t, 0, agg.GetCacheStats()["cache_size"])
}

func TestGetAirportOverview(t *testing.T) {
	src := &fakeSource{}
	agg := newTestAggregator(t, src, 60)

	got, err := agg.GetAirportOverview(context.Background(), " ktpa ")
	require.NoError(t, err)

	assert.Equal(t, "KTPA", got.Airport.CodeICAO)
	require.NotNil(t, got.Delays)
	assert.Equal(t, 900, got.Delays.DelaySecs)
	require.NotNil(t, got.FlightCounts)
	assert.Equal(t, 12, got.FlightCounts.Departed)
	require.NotNil(t, got.Weather)
	assert.Equal(t, "KTPA 151253Z 09005KT 10SM", got.Weather.RawData)
	assert.Empty(t, got.Errors)
	assert.Equal(t, "2024-06-15T12:00:00Z", got.Timestamp)
	assert.Equal(t, 1, src.lastWeather.MaxPages)
}

func TestGetAirportOverviewOptionalFailures(t *testing.T) {
	src := &fakeSource{
		delaysErr: &aeroapi.HTTPStatusError{StatusCode: 404},
		noWeather: true,
	}
	agg := newTestAggregator(t, src, 60)

	got, err := agg.GetAirportOverview(context.Background(), "KTPA")
	require.NoError(t, err)

	assert.Nil(t, got.Delays)
	assert.Nil(t, got.Weather)
	assert.NotNil(t, got.FlightCounts)
	assert.Len(t, got.Errors, 2)
	assert.Contains(t, got.Errors[PartDelays], "404")
	assert.Contains(t, got.Errors[PartWeather], "empty")
}

func TestGetAirportOverviewRequiredFailure(t *testing.T) {
	src := &fakeSource{airportErr: &aeroapi.NetworkError{URL: "x", Err: errors.New("refused")}}
	agg := newTestAggregator(t, src, 60)

	_, err := agg.GetAirportOverview(context.Background(), "KTPA")
	require.Error(t, err)
	assert.ErrorIs(t, err, aeroapi.ErrTransport)
	assert.Equal(t, 0, agg.GetCacheStats()["cache_size"])
}

func TestGetAirportOverviewEmptyCode(t *testing.T) {
	agg := newTestAggregator(t, &fakeSource{}, 60)

	_, err := agg.GetAirportOverview(context.Background(), "  ")
	assert.ErrorIs(t, err, aeroapi.ErrRequestBuild)
}

func TestAggregatorCache(t *testing.T) {
	src := &fakeSource{}
	metrics := &countingMetrics{}
	agg := newTestAggregator(t, src, 60)
	agg.SetMetricsRecorder(metrics)

	first, err := agg.GetAirportOverview(context.Background(), "KTPA")
	require.NoError(t, err)
	second, err := agg.GetAirportOverview(context.Background(), "ktpa")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, src.airportHits.Load())
	assert.EqualValues(t, 1, metrics.hits.Load())
	assert.EqualValues(t, 1, metrics.misses.Load())
}

func TestAggregatorCacheExpiration(t *testing.T) {
	src := &fakeSource{}
	agg := newTestAggregator(t, src, 60)
	start := agg.now()

	_, err := agg.GetAirportOverview(context.Background(), "KTPA")
	require.NoError(t, err)

	agg.now = func() time.Time { return start.Add(61 * time.Second) }
	assert.Nil(t, agg.getFromCache("KTPA"))
	assert.Equal(t, 0, agg.GetCacheStats()["cache_size"])

	_, err = agg.GetAirportOverview(context.Background(), "KTPA")
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.airportHits.Load())
}

func TestAggregatorCacheDisabled(t *testing.T) {
	src := &fakeSource{}
	agg := newTestAggregator(t, src, 0)

	for i := 0; i < 2; i++ {
		_, err := agg.GetAirportOverview(context.Background(), "KTPA")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, src.airportHits.Load())
	assert.Equal(t, 0, agg.GetCacheStats()["cache_size"])
}

func TestClearCache(t *testing.T) {
	agg := newTestAggregator(t, &fakeSource{}, 60)
	agg.setCache("KTPA", &AirportOverview{})
	agg.setCache("KJFK", &AirportOverview{})
	assert.Equal(t, 2, agg.GetCacheStats()["cache_size"])

	agg.ClearCache()
	assert.Equal(t, 0, agg.GetCacheStats()["cache_size"])
}

func TestConcurrentOverviews(t *testing.T) {
	agg := newTestAggregator(t, &fakeSource{}, 60)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := []string{"KTPA", "KJFK", "KORD"}[i%3]
			_, err := agg.GetAirportOverview(context.Background(), code)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, agg.GetCacheStats()["cache_size"], 3)
}
