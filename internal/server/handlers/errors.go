package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/utils"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// statusFor maps an SDK error to the HTTP status and code returned to the caller.
func statusFor(err error) (int, string) {
	var statusErr *aeroapi.HTTPStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= 400 && statusErr.StatusCode < 600 {
			return statusErr.StatusCode, "UPSTREAM_STATUS"
		}
		return http.StatusBadGateway, "UPSTREAM_STATUS"
	}

	switch aeroapi.KindOf(err) {
	case aeroapi.KindRequestBuild:
		return http.StatusBadRequest, "INVALID_REQUEST"
	case aeroapi.KindConfiguration:
		return http.StatusServiceUnavailable, "NOT_CONFIGURED"
	case aeroapi.KindDomainEmpty:
		return http.StatusNotFound, "NOT_FOUND"
	case aeroapi.KindTransport, aeroapi.KindDecode, aeroapi.KindBinaryDecode:
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "TIMEOUT"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func writeError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status, code := statusFor(err)

	span := utils.GetSpanFromGinContext(c)
	span.RecordError(err)
	if status >= 500 {
		span.SetStatus(codes.Error, err.Error())
	}
	_ = c.Error(err)

	fields := []zap.Field{zap.Error(err), zap.String("kind", aeroapi.KindOf(err).String()), zap.Int("status", status)}
	if status >= 500 {
		logger.Error(msg, fields...)
	} else {
		logger.Warn(msg, fields...)
	}

	c.JSON(status, ErrorResponse{
		Error:   msg,
		Code:    code,
		Details: err.Error(),
	})
}

// bind fills req from the path and query and runs the validate tags. It writes the 400
// response and returns false when the input is rejected.
func bind(c *gin.Context, logger *zap.Logger, req interface{}, fromURI bool) bool {
	var err error
	if fromURI {
		err = c.ShouldBindUri(req)
	} else {
		err = c.ShouldBindQuery(req)
	}
	if err != nil {
		logger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return false
	}

	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		logger.Warn("Request validation failed", zap.Int("fields", len(fields)))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid request parameters",
			Code:   "INVALID_PARAMS",
			Fields: fields,
		})
		return false
	}
	return true
}
