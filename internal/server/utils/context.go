package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	SpanContextKey = "span_context"
	RequestIDKey   = "request_id"
)

// GetSpanFromGinContext extracts the span context from Gin context
func GetSpanFromGinContext(c *gin.Context) trace.Span {
	return trace.SpanFromContext(GetContextFromGinContext(c))
}

// GetContextFromGinContext extracts the context with span from Gin context
func GetContextFromGinContext(c *gin.Context) context.Context {
	if spanCtx, exists := c.Get(SpanContextKey); exists {
		if ctx, ok := spanCtx.(context.Context); ok {
			return ctx
		}
	}
	return c.Request.Context()
}

// GetRequestIDFromGinContext extracts request ID from Gin context
func GetRequestIDFromGinContext(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// RequestLogger returns logger tagged with the request id, when there is one.
func RequestLogger(c *gin.Context, logger *zap.Logger) *zap.Logger {
	if id := GetRequestIDFromGinContext(c); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}
