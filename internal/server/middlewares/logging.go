package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/utils"
	"go.uber.org/zap"
)

// LoggingMiddleware logs one line per request. Requests to skipPaths are only logged when
// they fail.
func LoggingMiddleware(logger *zap.Logger, utc bool, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		if _, ok := skip[path]; ok && status < 400 {
			return
		}

		ts := time.Now()
		if utc {
			ts = ts.UTC()
		}

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", ts.Sub(start)),
			zap.Time("time", ts),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}

		if requestID := utils.GetRequestIDFromGinContext(c); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if userAgent := c.Request.UserAgent(); userAgent != "" {
			fields = append(fields, zap.String("user_agent", userAgent))
		}

		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			fields = append(fields, zap.String("error", msg))
		}

		switch {
		case status >= 400 && status < 500:
			logger.Warn("HTTP request", fields...)
		case status >= 500:
			logger.Error("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

func RecoveryMiddleware(logger *zap.Logger, stack bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.Any("recovered", recovered),
		}

		if requestID := utils.GetRequestIDFromGinContext(c); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if stack {
			fields = append(fields, zap.Stack("stack"))
		}

		logger.Error("HTTP panic recovered", fields...)
		c.AbortWithStatusJSON(500, gin.H{"error": "internal server error", "code": "INTERNAL"})
	})
}
