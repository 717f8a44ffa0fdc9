package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cgspins/internal/repository"
)

// Repos bundles repositories needed by API handlers.
type Repos struct {
	User        *repository.UserRepository
	Pending     *repository.PendingPaymentRepository
	Transaction *repository.TransactionRepository
	Commission  *repository.CommissionRepository
}

// StatsHandler serves aggregate bot statistics for the admin dashboard.
type StatsHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewStatsHandler(repos *Repos, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{repos: repos, logger: logger}
}

// Handle returns user, package, and ledger counts.
func (h *StatsHandler) Handle(c echo.Context) error {
	totalUsers, err := h.repos.User.CountAll()
	if err != nil {
		return h.fail(c, err)
	}
	activeUsers, err := h.repos.User.CountActive()
	if err != nil {
		return h.fail(c, err)
	}
	byPackage, err := h.repos.User.CountByPackage()
	if err != nil {
		return h.fail(c, err)
	}
	byLevel, err := h.repos.User.CountByLevel()
	if err != nil {
		return h.fail(c, err)
	}
	processedTxs, err := h.repos.Transaction.CountAll()
	if err != nil {
		return h.fail(c, err)
	}

	pendings, err := h.repos.Pending.FindAll()
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": true,
		"obj": map[string]interface{}{
			"total_users":            totalUsers,
			"active_packages":        activeUsers,
			"package_distribution":   byPackage,
			"level_distribution":     byLevel,
			"processed_transactions": processedTxs,
			"pending_payments":       len(pendings),
		},
	})
}

func (h *StatsHandler) fail(c echo.Context, err error) error {
	h.logger.Error("Stats query failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status": false,
		"msg":    "internal error",
		"obj":    nil,
	})
}
