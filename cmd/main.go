package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cgspins/internal/bootstrap"
	"cgspins/internal/bot"
	"cgspins/internal/config"
	cronpkg "cgspins/internal/cron"
	"cgspins/internal/game"
	"cgspins/internal/payment"
	"cgspins/internal/pkg/telegram"
	"cgspins/internal/repository"
	"cgspins/internal/router"
	"cgspins/internal/tonindexer"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	if err := bootstrap.MigrateAndSeed(db); err != nil {
		logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	pendingRepo := repository.NewPendingPaymentRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)

	// --- Telegram Bot API (direct HTTP client) ---
	botAPI := telegram.NewBotAPI(cfg.Bot.Token)
	notifier := telegram.NewNotifier(botAPI, cfg.Bot.AdminID, logger)

	// --- Chain indexer ---
	if cfg.Ton.WalletAddress != "" && !tonindexer.ValidAddress(cfg.Ton.WalletAddress) {
		logger.Warn("TON_WALLET_ADDRESS does not parse as a TON address",
			zap.String("address", cfg.Ton.WalletAddress))
	}
	indexer := tonindexer.New(cfg.Ton.APIBase, cfg.Ton.APIKey, cfg.Ton.APITimeout, logger)

	// --- Seen cache (Redis with in-memory fallback) ---
	seenCache, cacheErr := payment.NewSeenCache(cfg.Redis.Addr, cfg.Redis.Pass, cfg.Redis.DB, 10*time.Minute)
	if cacheErr != nil {
		logger.Warn("Redis unavailable for tx cache, using in-memory fallback", zap.Error(cacheErr))
	}

	// --- Payment pipeline ---
	store := payment.NewStore(pendingRepo, userRepo, logger)
	activator := payment.NewActivator(userRepo, txRepo, commissionRepo, store, notifier, cfg.Ton.TonToUSDRate, logger)
	reconciler := payment.NewReconciler(indexer, store, txRepo, activator, seenCache, cfg.Ton, logger)

	// --- Game ---
	engine := game.NewEngine(cfg.Game, rand.New(rand.NewSource(time.Now().UnixNano())))
	spins := game.NewSpinService(userRepo, engine, cfg.Game.WelcomeBonus, logger)

	// --- Bot ---
	botRepos := &bot.BotRepos{
		User:        userRepo,
		Pending:     pendingRepo,
		Transaction: txRepo,
		Commission:  commissionRepo,
	}
	teleBot, err := bot.New(cfg, botRepos, spins, store, activator, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true
	router.Setup(e, db, indexer, cfg.Ton.WalletAddress, cfg.API.Key, logger)

	// --- Cron Scheduler ---
	cronRepos := &cronpkg.CronRepos{
		User:        userRepo,
		Pending:     pendingRepo,
		Transaction: txRepo,
	}
	scheduler := cronpkg.New(cfg, reconciler, indexer, botAPI, cronRepos, logger)
	scheduler.Start()

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting CG Spins server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	go teleBot.Start()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	teleBot.Stop()

	ctx := scheduler.Stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
