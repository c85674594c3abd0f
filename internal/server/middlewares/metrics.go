package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const maxDurations = 1000

// HTTPMetrics holds only HTTP request metrics
type HTTPMetrics struct {
	mutex            sync.RWMutex
	requestsTotal    map[string]int64
	requestDurations []float64
	activeRequests   int64
}

// HTTPSnapshot is a point in time copy of HTTPMetrics.
type HTTPSnapshot struct {
	// RequestsTotal is keyed by "METHOD route status".
	RequestsTotal  map[string]int64
	AvgDuration    float64
	ActiveRequests int64
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requestsTotal:    make(map[string]int64),
		requestDurations: make([]float64, 0, maxDurations),
	}
}

// Handler counts requests by route and status and keeps the last durations.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mutex.Lock()
		m.activeRequests++
		m.mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		key := c.Request.Method + " " + route + " " + strconv.Itoa(c.Writer.Status())

		m.mutex.Lock()
		m.requestsTotal[key]++
		m.requestDurations = append(m.requestDurations, duration)
		m.activeRequests--

		if len(m.requestDurations) > maxDurations {
			m.requestDurations = m.requestDurations[len(m.requestDurations)-maxDurations:]
		}
		m.mutex.Unlock()
	}
}

func (m *HTTPMetrics) Snapshot() HTTPSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	s := HTTPSnapshot{
		RequestsTotal:  make(map[string]int64, len(m.requestsTotal)),
		ActiveRequests: m.activeRequests,
	}
	for k, v := range m.requestsTotal {
		s.RequestsTotal[k] = v
	}
	if len(m.requestDurations) > 0 {
		sum := 0.0
		for _, d := range m.requestDurations {
			sum += d
		}
		s.AvgDuration = sum / float64(len(m.requestDurations))
	}
	return s
}
