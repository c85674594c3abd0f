package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/utils"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"go.uber.org/zap"
)

type OperatorHandler struct {
	api    AeroAPI
	logger *zap.Logger
}

func NewOperatorHandler(api AeroAPI, logger *zap.Logger) *OperatorHandler {
	return &OperatorHandler{
		api:    api,
		logger: logger,
	}
}

// GetOperator treats two character codes as IATA and three character codes as ICAO.
func (h *OperatorHandler) GetOperator(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)

	var req OperatorPath
	if !bind(c, reqLogger, &req, true) {
		return
	}

	code := strings.ToUpper(req.Code)
	r := aeroapi.OperatorInfoRequest{ICAO: code}
	if len(code) == 2 {
		r = aeroapi.OperatorInfoRequest{IATA: code}
	}

	airline, err := h.api.GetOperator(utils.GetContextFromGinContext(c), r)
	if err != nil {
		writeError(c, reqLogger, "Failed to fetch operator", err)
		return
	}

	c.JSON(http.StatusOK, airline)
}
