package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/utils"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"go.uber.org/zap"
)

const defaultNearbyRadius = 50

type AirportHandler struct {
	api      AeroAPI
	overview OverviewProvider
	logger   *zap.Logger
}

func NewAirportHandler(api AeroAPI, overview OverviewProvider, logger *zap.Logger) *AirportHandler {
	return &AirportHandler{
		api:      api,
		overview: overview,
		logger:   logger,
	}
}

func (h *AirportHandler) GetAirport(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var req AirportPath
	if !bind(c, reqLogger, &req, true) {
		return
	}

	airport, err := h.api.GetAirport(utils.GetContextFromGinContext(c), strings.ToUpper(req.Code))
	if err != nil {
		writeError(c, reqLogger, "Failed to fetch airport", err)
		return
	}

	c.JSON(http.StatusOK, airport)
}

func (h *AirportHandler) GetDelays(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var req AirportPath
	if !bind(c, reqLogger, &req, true) {
		return
	}

	delays, err := h.api.GetAirportDelays(utils.GetContextFromGinContext(c), strings.ToUpper(req.Code))
	if err != nil {
		writeError(c, reqLogger, "Failed to fetch airport delays", err)
		return
	}

	c.JSON(http.StatusOK, delays)
}

// GetOverview returns the airport with its delays, flight counts and latest weather. Parts
// that failed upstream are listed under "errors" and the response is still 200.
func (h *AirportHandler) GetOverview(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var req AirportPath
	if !bind(c, reqLogger, &req, true) {
		return
	}

	reqLogger.Info("Processing overview request", zap.String("airport", req.Code))

	data, err := h.overview.GetAirportOverview(utils.GetContextFromGinContext(c), req.Code)
	if err != nil {
		writeError(c, reqLogger, "Failed to build airport overview", err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *AirportHandler) GetNearby(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var req NearbyQuery
	if !bind(c, reqLogger, &req, false) {
		return
	}
	if req.Radius == 0 {
		req.Radius = defaultNearbyRadius
	}

	resp, err := h.api.GetNearbyAirports(utils.GetContextFromGinContext(c), aeroapi.AirportsNearbyRequest{
		Latitude:  *req.Lat,
		Longitude: *req.Lon,
		Radius:    req.Radius,
		OnlyIAP:   req.OnlyIAP,
	})
	if err != nil {
		writeError(c, reqLogger, "Failed to fetch nearby airports", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
