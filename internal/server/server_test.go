package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/aeroapi-demo-app/internal/aggregator"
	"github.com/vzahanych/aeroapi-demo-app/internal/config"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/handlers"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const testFAID = "UAL123-1718000000-airline-0001"

type fakeAPI struct {
	err        error
	lastNearby aeroapi.AirportsNearbyRequest
	lastOp     aeroapi.OperatorInfoRequest
	lastMap    aeroapi.FlightMapRequest
}

func (f *fakeAPI) GetAirport(ctx context.Context, code string) (aeroapi.Airport, error) {
	if f.err != nil {
		return aeroapi.Airport{}, f.err
	}
	return aeroapi.Airport{CodeICAO: code, Name: "Tampa Intl"}, nil
}

func (f *fakeAPI) GetAirportDelays(ctx context.Context, code string) (aeroapi.AirportDelays, error) {
	if f.err != nil {
		return aeroapi.AirportDelays{}, f.err
	}
	return aeroapi.AirportDelays{Airport: code, DelaySecs: 600}, nil
}

func (f *fakeAPI) GetNearbyAirports(ctx context.Context, r aeroapi.AirportsNearbyRequest) (aeroapi.NearbyAirportsResponse, error) {
	f.lastNearby = r
	return aeroapi.NearbyAirportsResponse{Airports: []aeroapi.NearbyAirport{{Distance: 3}}}, f.err
}

func (f *fakeAPI) GetOperator(ctx context.Context, r aeroapi.OperatorInfoRequest) (aeroapi.Airline, error) {
	f.lastOp = r
	return aeroapi.Airline{Name: "United Airlines"}, f.err
}

func (f *fakeAPI) GetFlights(ctx context.Context, r aeroapi.FlightsRequest) (aeroapi.FlightsResponse, error) {
	return aeroapi.FlightsResponse{Flights: []aeroapi.Flight{{Ident: r.Ident}}}, f.err
}

func (f *fakeAPI) GetFlightTrack(ctx context.Context, r aeroapi.FlightTrackRequest) (aeroapi.FlightTrack, error) {
	return aeroapi.FlightTrack{Positions: []aeroapi.Position{{}, {}}}, f.err
}

func (f *fakeAPI) GetFlightMap(ctx context.Context, r aeroapi.FlightMapRequest) ([]byte, error) {
	f.lastMap = r
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG\r\n"), nil
}

type fakeOverview struct {
	out *aggregator.AirportOverview
	err error
}

func (f *fakeOverview) GetAirportOverview(ctx context.Context, code string) (*aggregator.AirportOverview, error) {
	return f.out, f.err
}

func newTestServer(t *testing.T, api *fakeAPI, overview *fakeOverview, logger *zap.Logger) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	refs := aeroapi.NewReferenceCache()
	require.NoError(t, refs.LoadDefault())

	if overview == nil {
		overview = &fakeOverview{out: &aggregator.AirportOverview{Airport: aeroapi.Airport{CodeICAO: "KTPA"}}}
	}
	return NewServer(config.NewDefaultConfig().Server, Deps{API: api, Overview: overview, Refs: refs}, logger, nil)
}

func get(t *testing.T, s *Server, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, &fakeAPI{}, nil, zaptest.NewLogger(t))

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/v1/airports/ktpa", http.StatusOK, `"code_icao":"KTPA"`},
		{"/v1/airports/KTPA/delays", http.StatusOK, `"delay_secs":600`},
		{"/v1/airports/KTPA/overview", http.StatusOK, `"airport"`},
		{"/v1/airports/nearby?lat=27.97&lon=-82.53", http.StatusOK, `"distance":3`},
		{"/v1/operators/UAL", http.StatusOK, `United Airlines`},
		{"/v1/flights/UAL123", http.StatusOK, `"ident":"UAL123"`},
		{"/v1/flights/" + testFAID + "/track", http.StatusOK, `"positions"`},
		{"/v1/lookup/airports?q=TPA", http.StatusOK, `KTPA`},
		{"/health", http.StatusOK, `"status":"ok"`},
		{"/health/live", http.StatusOK, `"status":"alive"`},
		{"/health/ready", http.StatusOK, `"status":"ready"`},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, s, tt.target)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestValidationRejects(t *testing.T) {
	s := newTestServer(t, &fakeAPI{}, nil, zaptest.NewLogger(t))

	for _, target := range []string{
		"/v1/airports/TOOLONG",
		"/v1/airports/nearby?lat=95&lon=10",
		"/v1/airports/nearby?lon=10",
		"/v1/airports/nearby?lat=1&lon=2&radius=9999",
		"/v1/operators/UNITED",
		"/v1/flights/" + testFAID + "/map?height=0&width=2000",
		"/v1/lookup/airports",
	} {
		t.Run(target, func(t *testing.T) {
			w := get(t, s, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeBody[handlers.ErrorResponse](t, w)
			assert.Equal(t, "INVALID_PARAMS", resp.Code)
		})
	}
}

func TestNearbyDefaultsRadius(t *testing.T) {
	api := &fakeAPI{}
	s := newTestServer(t, api, nil, zaptest.NewLogger(t))

	w := get(t, s, "/v1/airports/nearby?lat=0&lon=0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, api.lastNearby.Radius)
	assert.Zero(t, api.lastNearby.Latitude)
}

func TestOperatorCodeWidth(t *testing.T) {
	api := &fakeAPI{}
	s := newTestServer(t, api, nil, zaptest.NewLogger(t))

	get(t, s, "/v1/operators/ua")
	assert.Equal(t, aeroapi.OperatorInfoRequest{IATA: "UA"}, api.lastOp)

	get(t, s, "/v1/operators/ual")
	assert.Equal(t, aeroapi.OperatorInfoRequest{ICAO: "UAL"}, api.lastOp)
}

func TestFlightMapServesPNG(t *testing.T) {
	api := &fakeAPI{}
	s := newTestServer(t, api, nil, zaptest.NewLogger(t))

	w := get(t, s, "/v1/flights/"+testFAID+"/map?height=300")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG\r\n", w.Body.String())
	assert.Equal(t, 300, api.lastMap.Height)
	assert.Equal(t, aeroapi.DefaultMapWidth, api.lastMap.Width)
}

func TestTrackRejectsMalformedID(t *testing.T) {
	s := newTestServer(t, &fakeAPI{}, nil, zaptest.NewLogger(t))

	w := get(t, s, "/v1/flights/UAL123/track")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeBody[handlers.ErrorResponse](t, w).Code)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"upstream 404", &aeroapi.HTTPStatusError{StatusCode: 404}, http.StatusNotFound, "UPSTREAM_STATUS"},
		{"upstream 204", &aeroapi.HTTPStatusError{StatusCode: 204}, http.StatusBadGateway, "UPSTREAM_STATUS"},
		{"missing key", &aeroapi.MissingCredentialError{}, http.StatusServiceUnavailable, "NOT_CONFIGURED"},
		{"network", &aeroapi.NetworkError{URL: "x", Err: errors.New("refused")}, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"decode", &aeroapi.DecodeError{Target: "Airport", Err: errors.New("eof")}, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"empty", &aeroapi.EmptyResultError{Resource: "flights"}, http.StatusNotFound, "NOT_FOUND"},
		{"filter", &aeroapi.InvalidFilterError{Name: "radius"}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeAPI{err: tt.err}, nil, zap.NewNop())

			w := get(t, s, "/v1/airports/KTPA")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeBody[handlers.ErrorResponse](t, w).Code)
		})
	}
}

func TestOverviewFailure(t *testing.T) {
	overview := &fakeOverview{err: &aeroapi.HTTPStatusError{StatusCode: 401}}
	s := newTestServer(t, &fakeAPI{}, overview, zap.NewNop())

	w := get(t, s, "/v1/airports/KTPA/overview")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLookupWildcard(t *testing.T) {
	s := newTestServer(t, &fakeAPI{}, nil, zap.NewNop())

	w := get(t, s, "/v1/lookup/airports?q=K*")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[handlers.LookupResponse](t, w)
	assert.NotEmpty(t, resp.Airports)

	w = get(t, s, "/v1/lookup/airports?q=ZZZZ")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"airports":[]}`, w.Body.String())
}

func TestReadinessWithoutReferenceData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewServer(config.NewDefaultConfig().Server, Deps{
		API:      &fakeAPI{},
		Overview: &fakeOverview{},
		Refs:     aeroapi.NewReferenceCache(),
	}, zap.NewNop(), nil)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/health/ready").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/v1/lookup/airports?q=TPA").Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, &fakeAPI{}, nil, zap.NewNop())

	w := get(t, s, "/health", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = get(t, s, "/health", "X-Request-ID", "has space")
	assert.NotEqual(t, "has space", w.Header().Get("X-Request-ID"))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := newTestServer(t, &fakeAPI{}, nil, zap.New(core))

	get(t, s, "/health")
	assert.Zero(t, logs.FilterMessage("HTTP request").Len())

	get(t, s, "/v1/airports/KTPA", "X-Request-ID", "req-1")
	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/v1/airports/:code", fields["route"])
	assert.Equal(t, int64(200), fields["status"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeAPI{}, nil, zap.NewNop())
	s.deps.Metrics.RecordCacheHit(context.Background(), "airport_overview")
	s.deps.Metrics.RecordCall(context.Background(), "GetAirport", nil)
	s.deps.Metrics.RecordCall(context.Background(), "GetAirport", &aeroapi.HTTPStatusError{StatusCode: 500})
	s.deps.Metrics.RecordMerge(context.Background(), "airport", aeroapi.Merged)

	get(t, s, "/v1/airports/KTPA")
	w := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `http_requests_total{method="GET",route="/v1/airports/:code",status="200"} 1`)
	assert.Contains(t, text, `aggregator_cache_hits_total{cache="airport_overview"} 1`)
	assert.Contains(t, text, `aeroapi_calls_total{operation="GetAirport"} 2`)
	assert.Contains(t, text, `aeroapi_errors_total{operation="GetAirport",kind="transport"} 1`)
	assert.Contains(t, text, `refcache_merges_total{entity="airport",outcome="merged"} 1`)
}

func TestRecoveryMiddleware(t *testing.T) {
	s := newTestServer(t, &fakeAPI{}, nil, zap.NewNop())
	s.engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := get(t, s, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL")
}
