package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/middlewares"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"go.uber.org/zap"
)

// AppMetrics holds application-level metrics (cache, AeroAPI calls, merges)
type AppMetrics struct {
	mutex         sync.RWMutex
	cacheHits     map[string]int64
	cacheMisses   map[string]int64
	aeroapiCalls  map[string]int64
	aeroapiErrors map[string]int64
	merges        map[string]int64
}

// HTTPMetricsSource is satisfied by *middlewares.HTTPMetrics.
type HTTPMetricsSource interface {
	Snapshot() middlewares.HTTPSnapshot
}

// MetricsHandler records SDK and aggregator events and serves them with the HTTP metrics
// in the Prometheus text format.
type MetricsHandler struct {
	logger     *zap.Logger
	appMetrics *AppMetrics
	http       HTTPMetricsSource
}

func NewMetricsHandler(logger *zap.Logger, httpMetrics HTTPMetricsSource) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		http:   httpMetrics,
		appMetrics: &AppMetrics{
			cacheHits:     make(map[string]int64),
			cacheMisses:   make(map[string]int64),
			aeroapiCalls:  make(map[string]int64),
			aeroapiErrors: make(map[string]int64),
			merges:        make(map[string]int64),
		},
	}
}

// RecordCacheHit records a cache hit metric
func (h *MetricsHandler) RecordCacheHit(ctx context.Context, cacheType string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.cacheHits[cacheType]++
	h.appMetrics.mutex.Unlock()
}

// RecordCacheMiss records a cache miss metric
func (h *MetricsHandler) RecordCacheMiss(ctx context.Context, cacheType string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.cacheMisses[cacheType]++
	h.appMetrics.mutex.Unlock()
}

// RecordCall counts one AeroAPI operation. Errors are counted by kind.
func (h *MetricsHandler) RecordCall(ctx context.Context, operation string, err error) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.aeroapiCalls[operation]++
	if err != nil {
		h.appMetrics.aeroapiErrors[operation+"|"+aeroapi.KindOf(err).String()]++
	}
	h.appMetrics.mutex.Unlock()
}

func (h *MetricsHandler) RecordMerge(ctx context.Context, entity string, outcome aeroapi.MergeOutcome) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.merges[entity+"|"+outcome.String()]++
	h.appMetrics.mutex.Unlock()
}

func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		snap := h.http.Snapshot()

		writeHeader(&b, "http_requests_total", "Total number of HTTP requests", "counter")
		for _, key := range sortedKeys(snap.RequestsTotal) {
			parts := strings.SplitN(key, " ", 3)
			if len(parts) != 3 {
				continue
			}
			writeSample(&b, "http_requests_total", snap.RequestsTotal[key],
				"method", parts[0], "route", parts[1], "status", parts[2])
		}

		writeHeader(&b, "http_request_duration_seconds_avg", "Average duration of HTTP requests", "gauge")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(snap.AvgDuration, 'f', 6, 64) + "\n")

		writeHeader(&b, "http_active_requests", "Number of active HTTP requests", "gauge")
		b.WriteString("http_active_requests " + strconv.FormatInt(snap.ActiveRequests, 10) + "\n")
	}

	h.appMetrics.mutex.RLock()

	writeHeader(&b, "aggregator_cache_hits_total", "Total cache hits", "counter")
	for _, key := range sortedKeys(h.appMetrics.cacheHits) {
		writeSample(&b, "aggregator_cache_hits_total", h.appMetrics.cacheHits[key], "cache", key)
	}

	writeHeader(&b, "aggregator_cache_miss_total", "Total cache misses", "counter")
	for _, key := range sortedKeys(h.appMetrics.cacheMisses) {
		writeSample(&b, "aggregator_cache_miss_total", h.appMetrics.cacheMisses[key], "cache", key)
	}

	writeHeader(&b, "aeroapi_calls_total", "Total AeroAPI operations", "counter")
	for _, key := range sortedKeys(h.appMetrics.aeroapiCalls) {
		writeSample(&b, "aeroapi_calls_total", h.appMetrics.aeroapiCalls[key], "operation", key)
	}

	writeHeader(&b, "aeroapi_errors_total", "Total failed AeroAPI operations", "counter")
	for _, key := range sortedKeys(h.appMetrics.aeroapiErrors) {
		op, kind, _ := strings.Cut(key, "|")
		writeSample(&b, "aeroapi_errors_total", h.appMetrics.aeroapiErrors[key], "operation", op, "kind", kind)
	}

	writeHeader(&b, "refcache_merges_total", "Reference cache merges by outcome", "counter")
	for _, key := range sortedKeys(h.appMetrics.merges) {
		entity, outcome, _ := strings.Cut(key, "|")
		writeSample(&b, "refcache_merges_total", h.appMetrics.merges[key], "entity", entity, "outcome", outcome)
	}

	h.appMetrics.mutex.RUnlock()

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func writeHeader(b *strings.Builder, name, help, typ string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("# HELP " + name + " " + help + "\n")
	b.WriteString("# TYPE " + name + " " + typ + "\n")
}

// writeSample writes name{k1="v1",...} value. labels alternate key and value.
func writeSample(b *strings.Builder, name string, value int64, labels ...string) {
	b.WriteString(name)
	if len(labels) > 0 {
		b.WriteString("{")
		for i := 0; i+1 < len(labels); i += 2 {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(labels[i] + "=" + strconv.Quote(labels[i+1]))
		}
		b.WriteString("}")
	}
	b.WriteString(" " + strconv.FormatInt(value, 10) + "\n")
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
