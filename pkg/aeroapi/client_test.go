package aeroapi

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testKey = "test-key"

type recordedCall struct {
	operation string
	err       error
}

type fakeMetrics struct {
	mu     sync.Mutex
	calls  []recordedCall
	merges map[string][]MergeOutcome
}

func (m *fakeMetrics) RecordCall(_ context.Context, operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedCall{operation, err})
}

func (m *fakeMetrics) RecordMerge(_ context.Context, entity string, outcome MergeOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.merges == nil {
		m.merges = map[string][]MergeOutcome{}
	}
	m.merges[entity] = append(m.merges[entity], outcome)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	base := []Option{WithAPIKey(testKey), WithBaseURL(srv.URL + "/aeroapi")}
	return NewClient(append(base, opts...)...)
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestClientSendsKeyAndQuery(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		jsonHandler(http.StatusOK, `{"flights":[{"ident":"UAL231","fa_flight_id":"UAL231-1-x"}]}`)(w, r)
	})

	resp, err := c.GetFlights(context.Background(), FlightsRequest{
		Ident:     "UAL231",
		IdentType: IdentTypeDesignator,
		Paging:    Paging{MaxPages: 2, Cursor: "next"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Flights, 1)
	assert.Equal(t, "UAL231", resp.Flights[0].Ident)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, testKey, got.Header.Get("x-apikey"))
	assert.Equal(t, "/aeroapi/flights/UAL231", got.URL.Path)
	assert.Equal(t, "ident_type=designator&max_pages=2&cursor=next", got.URL.RawQuery)
}

func TestClientRejectsNon200(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusCreated, http.StatusNotFound, http.StatusTooManyRequests, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			c := newTestClient(t, jsonHandler(status, `{"title":"nope"}`))

			_, err := c.GetAirport(context.Background(), "KTPA")
			var hse *HTTPStatusError
			require.ErrorAs(t, err, &hse)
			assert.Equal(t, status, hse.StatusCode)
			assert.ErrorIs(t, err, ErrTransport)
		})
	}
}

func TestClientDecodeError(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"airports": 12`))

	_, err := c.ListAirports(context.Background(), Paging{})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, `{"airports": 12`, string(de.Payload))
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestClientRejectsBadTimestamp(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"positions":[{"timestamp":"2024-06-15 12:00"}]}`))

	_, err := c.GetFlightTrack(context.Background(), FlightTrackRequest{FAID: "UAL231-1-x"})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClientPreconditionsSkipNetwork(t *testing.T) {
	var hits atomic.Int32
	counting := func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		jsonHandler(http.StatusOK, `{}`)(w, r)
	}

	t.Run("missing key", func(t *testing.T) {
		c := newTestClient(t, counting, WithAPIKey(""))
		_, err := c.GetAirport(context.Background(), "KTPA")
		var mce *MissingCredentialError
		assert.ErrorAs(t, err, &mce)
		assert.ErrorIs(t, err, ErrConfiguration)
	})
	t.Run("invalid filter", func(t *testing.T) {
		c := newTestClient(t, counting)
		_, err := c.GetNearbyAirports(context.Background(), AirportsNearbyRequest{Code: "KTPA"})
		var ife *InvalidFilterError
		assert.ErrorAs(t, err, &ife)
	})
	t.Run("missing identifier", func(t *testing.T) {
		c := newTestClient(t, counting)
		_, err := c.GetAirportDelays(context.Background(), "")
		var mie *MissingIdentifierError
		assert.ErrorAs(t, err, &mie)
	})
	assert.Zero(t, hits.Load())
}

func TestClientURLBuildError(t *testing.T) {
	c := NewClient(WithAPIKey(testKey), WithBaseURL("aeroapi.example/aeroapi"))

	_, err := c.GetAirport(context.Background(), "KTPA")
	var ube *URLBuildError
	require.ErrorAs(t, err, &ube)
	assert.Equal(t, "/airports/KTPA", ube.Path)
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, `{}`))
	base := srv.URL
	srv.Close()

	c := NewClient(WithAPIKey(testKey), WithBaseURL(base), WithTimeout(time.Second))
	_, err := c.GetAirport(context.Background(), "KTPA")
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestClientContextCancel(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetAirport(ctx, "KTPA")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClientSetAPIKeyAtRuntime(t *testing.T) {
	var seen atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("x-apikey"))
		jsonHandler(http.StatusOK, `{"code_icao":"KTPA"}`)(w, r)
	})

	c.SetAPIKey("rotated")
	_, err := c.GetAirport(context.Background(), "KTPA")
	require.NoError(t, err)
	assert.Equal(t, "rotated", seen.Load())
}

func TestClientDebugTrace(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"code_icao":"KTPA","name":"Tampa"}`),
		WithLogger(zap.New(core)))

	_, err := c.GetAirport(context.Background(), "KTPA")
	require.NoError(t, err)
	assert.Zero(t, logs.Len(), "trace flags default off")

	c.SetDebug(true)
	c.SetShowHTTPRequestURLs(true)
	_, err = c.GetAirport(context.Background(), "KTPA")
	require.NoError(t, err)

	requests := logs.FilterMessage("aeroapi request").All()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0].ContextMap()["url"], "/aeroapi/airports/KTPA")

	responses := logs.FilterMessage("aeroapi response").All()
	require.Len(t, responses, 1)
	assert.Contains(t, responses[0].ContextMap()["body"], `"name": "Tampa"`)
	assert.Equal(t, "GetAirport", responses[0].ContextMap()["operation"])

	for _, e := range logs.All() {
		for _, v := range e.ContextMap() {
			assert.NotContains(t, v, testKey)
		}
	}
}

func TestClientDebugTraceSkipsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := newTestClient(t, jsonHandler(http.StatusNotFound, `{}`),
		WithLogger(zap.New(core)), WithDebug(true))

	_, err := c.GetAirport(context.Background(), "KTPA")
	require.Error(t, err)
	assert.Zero(t, logs.FilterMessage("aeroapi response").Len())
}

func TestClientLiteralRequestWindowChecked(t *testing.T) {
	freezeTime(t, fixedNow)

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		jsonHandler(http.StatusOK, `{}`)(w, r)
	})
	start := fixedNow.Add(-30 * 24 * time.Hour)
	end := start.Add(-time.Hour)

	_, err := c.GetAirportFlights(context.Background(), AirportFlightsRequest{Code: "KTPA", Start: start, End: end})
	var sae *StartAfterEndError
	assert.ErrorAs(t, err, &sae)
	assert.ErrorIs(t, err, ErrRequestBuild)

	_, err = c.GetOperatorFlights(context.Background(), OperatorFlightsRequest{Code: "UAL", Start: end, End: start})
	var oow *DateRangeOutOfWindowError
	assert.ErrorAs(t, err, &oow)

	_, err = c.GetFlights(context.Background(), FlightsRequest{Ident: "UAL231", Start: fixedNow})
	assert.ErrorIs(t, err, ErrRequestBuild)

	assert.Zero(t, hits.Load())
}

func TestWithTimeoutLeavesSharedClient(t *testing.T) {
	shared := &http.Client{}

	before := NewClient(WithTimeout(time.Second), WithHTTPClient(shared))
	after := NewClient(WithHTTPClient(shared), WithTimeout(2*time.Second))

	assert.Zero(t, shared.Timeout)
	assert.Equal(t, time.Second, before.http.Timeout)
	assert.Equal(t, 2*time.Second, after.http.Timeout)
	assert.NotSame(t, shared, after.http)

	plain := NewClient(WithHTTPClient(shared))
	assert.Same(t, shared, plain.http)
}

func TestClientBinary(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	encoded := base64.StdEncoding.EncodeToString(png)

	tests := []struct {
		name    string
		body    string
		want    []byte
		wantErr error
	}{
		{"decoded", `{"map":"` + encoded + `"}`, png, nil},
		{"missing field", `{"image":"` + encoded + `"}`, nil, ErrBinaryDecode},
		{"not base64", `{"map":"***"}`, nil, ErrBinaryDecode},
		{"not a string", `{"map":42}`, nil, ErrBinaryDecode},
		{"empty payload", `{"map":""}`, nil, ErrBinaryDecode},
		{"not json", `<html>`, nil, ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, jsonHandler(http.StatusOK, tt.body))
			got, err := c.GetFlightMap(context.Background(), FlightMapRequest{
				FAID:       "UAL231-1-x",
				MapOptions: MapOptions{Height: DefaultMapHeight, Width: DefaultMapWidth},
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientRecordsMetrics(t *testing.T) {
	m := &fakeMetrics{}
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"positions":[]}`), WithMetrics(m))

	_, err := c.GetFlightTrack(context.Background(), FlightTrackRequest{FAID: "UAL231-1-x"})
	var empty *EmptyResultError
	require.ErrorAs(t, err, &empty)
	assert.ErrorIs(t, err, ErrDomainEmpty)

	require.Len(t, m.calls, 1)
	assert.Equal(t, "GetFlightTrack", m.calls[0].operation)
	assert.ErrorIs(t, m.calls[0].err, ErrDomainEmpty)
}

func TestGetAirportMergesIntoCache(t *testing.T) {
	cache := NewReferenceCache()
	require.NoError(t, cache.LoadDefault())
	m := &fakeMetrics{}
	c := newTestClient(t, jsonHandler(http.StatusOK, `{
		"airport_code": "KTPA",
		"code_icao": "KTPA",
		"code_iata": "TPA",
		"name": "Tampa Intl",
		"elevation": 29,
		"timezone": "America/New_York",
		"wiki_url": "https://en.wikipedia.org/wiki/Tampa_International_Airport"
	}`), WithCache(cache), WithMetrics(m))

	got, err := c.GetAirport(context.Background(), "KTPA")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, "tpa", got.Icon)
	assert.Equal(t, "https://twitter.com/FlyTPA", got.Twitter)
	assert.Equal(t, "Tampa Intl", got.Name)
	require.NotNil(t, got.Elevation)
	assert.Equal(t, 29.0, *got.Elevation)
	assert.Equal(t, "Tampa", got.City, "fields absent from the response keep their cached value")

	cached, ok := cache.FindAirport("TPA")
	require.True(t, ok)
	assert.Equal(t, got, cached)
	assert.Equal(t, []MergeOutcome{Merged}, m.merges["airport"])
}

func TestGetAirportWithoutCacheMatch(t *testing.T) {
	cache := NewReferenceCache()
	require.NoError(t, cache.LoadDefault())
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"code_icao":"KMCO","name":"Orlando International"}`),
		WithCache(cache))

	got, err := c.GetAirport(context.Background(), "KMCO")
	require.NoError(t, err)
	assert.Equal(t, Airport{CodeICAO: "KMCO", Name: "Orlando International"}, got)
	_, ok := cache.FindAirport("KMCO")
	assert.False(t, ok)
}

func TestGetAircraftTypeFillsIdent(t *testing.T) {
	cache := NewReferenceCache()
	require.NoError(t, cache.LoadDefault())
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"manufacturer":"Boeing","type":"Landplane","engine_count":2,"engine_type":"Jet"}`),
		WithCache(cache))

	got, err := c.GetAircraftType(context.Background(), "B738")
	require.NoError(t, err)
	assert.Equal(t, "B738", got.Ident)
	assert.Equal(t, "Boeing 737-800", got.Name)
	assert.Equal(t, "Boeing", got.Manufacturer)
	require.NotNil(t, got.EngineCount)
	assert.Equal(t, 2, *got.EngineCount)
}

func TestGetOperatorMerges(t *testing.T) {
	cache := NewReferenceCache()
	require.NoError(t, cache.LoadDefault())
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"icao":"UAL","iata":"UA","name":"United Air Lines Inc.","location":"Chicago"}`),
		WithCache(cache))

	got, err := c.GetOperator(context.Background(), OperatorInfoRequest{IATA: "UA"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, "ual", got.Icon)
	assert.Equal(t, "Star Alliance", got.Alliance)
	assert.Equal(t, "United Air Lines Inc.", got.Name)
	assert.Equal(t, "Chicago", got.Location)
}

func TestGetFlightPrefersMatchingID(t *testing.T) {
	freezeTime(t, fixedNow)
	id := faID("UAL231", fixedNow.Add(time.Hour))
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"flights":[
		{"ident":"UAL231","fa_flight_id":"UAL231-0-other"},
		{"ident":"UAL231","fa_flight_id":"`+id+`","status":"Scheduled"}
	]}`))

	f, err := c.GetFlight(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, f.FAFlightID)
	assert.Equal(t, StatusScheduled, f.Status)
}

func TestGetFlightEmpty(t *testing.T) {
	freezeTime(t, fixedNow)
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"flights":[]}`))

	_, err := c.GetFlight(context.Background(), faID("UAL231", fixedNow))
	assert.ErrorIs(t, err, ErrDomainEmpty)
}

func TestGetSchedulesMergesCodeshares(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"scheduled":[
		{"ident":"UAL100","origin":"KTPA","destination":"KJFK","scheduled_out":"2024-06-15T12:00:00Z","scheduled_in":"2024-06-15T14:40:00Z"},
		{"ident":"DLH7600","actual_ident":"UAL100","origin":"KTPA","destination":"KJFK","scheduled_out":"2024-06-15T12:00:00Z","scheduled_in":"2024-06-15T14:40:00Z"}
	],"num_pages":1}`))

	resp, err := c.GetSchedules(context.Background(), ScheduledFlightsRequest{
		Start: fixedNow, End: fixedNow.Add(24 * time.Hour), Origin: "KTPA",
	})
	require.NoError(t, err)
	require.Len(t, resp.Scheduled, 1)
	assert.Equal(t, "UAL100", resp.Scheduled[0].Ident)
	assert.Equal(t, []Codeshare{{Ident: "DLH7600", ActualIdent: "UAL100"}}, resp.Scheduled[0].Codeshares)
}

func TestGetSchedulesEmpty(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusOK, `{"scheduled":[]}`))

	_, err := c.GetSchedules(context.Background(), ScheduledFlightsRequest{Start: fixedNow, End: fixedNow.Add(time.Hour)})
	var empty *EmptyResultError
	assert.ErrorAs(t, err, &empty)
}
