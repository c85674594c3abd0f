package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/utils"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"go.uber.org/zap"
)

// LookupHandler answers from the local reference datasets without calling AeroAPI.
type LookupHandler struct {
	refs   ReferenceLookup
	logger *zap.Logger
}

func NewLookupHandler(refs ReferenceLookup, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		refs:   refs,
		logger: logger,
	}
}

// Airports treats q as a wildcard pattern when it contains * or ?, otherwise as a code or
// name prefix.
func (h *LookupHandler) Airports(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var req LookupQuery
	if !bind(c, reqLogger, &req, false) {
		return
	}

	if !h.refs.Loaded() {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Reference data not loaded",
			Code:  "NOT_READY",
		})
		return
	}

	resp := LookupResponse{Airports: []aeroapi.Airport{}}
	if strings.ContainsAny(req.Q, "*?") {
		if found := h.refs.SearchAirports(req.Q); len(found) > 0 {
			resp.Airports = found
		}
	} else if airport, ok := h.refs.FindAirport(req.Q); ok {
		resp.Airports = append(resp.Airports, airport)
	}

	reqLogger.Debug("Airport lookup", zap.String("q", req.Q), zap.Int("matches", len(resp.Airports)))
	c.JSON(http.StatusOK, resp)
}
