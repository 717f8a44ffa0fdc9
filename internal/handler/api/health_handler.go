package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cgspins/internal/tonindexer"
)

// HealthHandler probes the chain indexer alongside the process itself.
type HealthHandler struct {
	indexer       *tonindexer.Client
	walletAddress string
	logger        *zap.Logger
}

func NewHealthHandler(indexer *tonindexer.Client, walletAddress string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{indexer: indexer, walletAddress: walletAddress, logger: logger}
}

// Handle reports indexer reachability and response time. The process
// answering at all means the bot side is up.
func (h *HealthHandler) Handle(c echo.Context) error {
	health := h.indexer.HealthCheck(c.Request().Context(), h.walletAddress)

	code := http.StatusOK
	if health.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]interface{}{
		"status":  health.Status == "healthy",
		"indexer": health,
	})
}
