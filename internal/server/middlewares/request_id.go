package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/utils"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = utils.RequestIDKey

	maxRequestIDLength = 128
)

// RequestIDMiddleware echoes a caller supplied X-Request-ID, or issues a new UUID when the
// header is missing or unusable.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !usableRequestID(requestID) {
			requestID = uuid.New().String()
		}

		c.Header(RequestIDHeader, requestID)

		c.Set(RequestIDKey, requestID)

		c.Next()
	}
}

func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
