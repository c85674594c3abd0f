package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/utils"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"go.uber.org/zap"
)

type FlightHandler struct {
	api    AeroAPI
	logger *zap.Logger
}

func NewFlightHandler(api AeroAPI, logger *zap.Logger) *FlightHandler {
	return &FlightHandler{
		api:    api,
		logger: logger,
	}
}

// GetFlights lists the recent and scheduled flights for an ident or registration.
func (h *FlightHandler) GetFlights(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var path FlightPath
	if !bind(c, reqLogger, &path, true) {
		return
	}

	r, err := aeroapi.NewFlightsRequest(path.Ident, time.Time{}, time.Time{})
	if err != nil {
		writeError(c, reqLogger, "Invalid flight request", err)
		return
	}

	resp, err := h.api.GetFlights(utils.GetContextFromGinContext(c), r)
	if err != nil {
		writeError(c, reqLogger, "Failed to fetch flights", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTrack expects an fa_flight_id.
func (h *FlightHandler) GetTrack(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var path FlightPath
	if !bind(c, reqLogger, &path, true) {
		return
	}

	r, err := aeroapi.NewFlightTrackRequest(path.Ident)
	if err != nil {
		writeError(c, reqLogger, "Invalid track request", err)
		return
	}

	track, err := h.api.GetFlightTrack(utils.GetContextFromGinContext(c), r)
	if err != nil {
		writeError(c, reqLogger, "Failed to fetch flight track", err)
		return
	}

	c.JSON(http.StatusOK, track)
}

// GetMap serves the decoded PNG for an fa_flight_id.
func (h *FlightHandler) GetMap(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var path FlightPath
	if !bind(c, reqLogger, &path, true) {
		return
	}
	var query MapQuery
	if !bind(c, reqLogger, &query, false) {
		return
	}

	r, err := aeroapi.NewFlightMapRequest(path.Ident, aeroapi.MapOptions{
		Height: query.Height,
		Width:  query.Width,
	})
	if err != nil {
		writeError(c, reqLogger, "Invalid map request", err)
		return
	}

	png, err := h.api.GetFlightMap(utils.GetContextFromGinContext(c), r)
	if err != nil {
		writeError(c, reqLogger, "Failed to fetch flight map", err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
