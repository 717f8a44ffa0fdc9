package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cgspins/internal/handler/api"
	"cgspins/internal/middleware"
	"cgspins/internal/repository"
	"cgspins/internal/tonindexer"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	indexer *tonindexer.Client,
	walletAddress string,
	apiKey string,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Repositories
	repos := &api.Repos{
		User:        repository.NewUserRepository(db),
		Pending:     repository.NewPendingPaymentRepository(db),
		Transaction: repository.NewTransactionRepository(db),
		Commission:  repository.NewCommissionRepository(db),
	}

	// Handlers
	statsHandler := api.NewStatsHandler(repos, logger)
	healthHandler := api.NewHealthHandler(indexer, walletAddress, logger)

	// API group with auth middleware
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.APIAuth(apiKey))
	apiGroup.GET("/stats", statsHandler.Handle)

	// Health check, unauthenticated for load balancers
	e.GET("/health", healthHandler.Handle)
}
