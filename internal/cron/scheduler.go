package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"cgspins/internal/config"
	"cgspins/internal/payment"
	"cgspins/internal/pkg/telegram"
	"cgspins/internal/pkg/utils"
	"cgspins/internal/repository"
	"cgspins/internal/tonindexer"
)

// Scheduler manages all cron jobs.
type Scheduler struct {
	cron       *cron.Cron
	cfg        *config.Config
	logger     *zap.Logger
	reconciler *payment.Reconciler
	indexer    *tonindexer.Client
	botAPI     *telegram.BotAPI
	repos      *CronRepos
}

// CronRepos bundles repositories needed by cron jobs.
type CronRepos struct {
	User        *repository.UserRepository
	Pending     *repository.PendingPaymentRepository
	Transaction *repository.TransactionRepository
}

// New creates a new cron scheduler.
func New(
	cfg *config.Config,
	reconciler *payment.Reconciler,
	indexer *tonindexer.Client,
	botAPI *telegram.BotAPI,
	repos *CronRepos,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		cfg:        cfg,
		logger:     logger,
		reconciler: reconciler,
		indexer:    indexer,
		botAPI:     botAPI,
		repos:      repos,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...")

	// Payment reconciliation - every poll interval
	s.cron.AddFunc(fmt.Sprintf("@every %s", s.cfg.Ton.PollInterval), func() {
		s.logger.Debug("Running: payment reconciliation")
		s.reconcilePayments()
	})

	// Daily wallet report - at 23:45
	s.cron.AddFunc("0 45 23 * * *", func() {
		s.logger.Debug("Running: daily wallet report")
		s.dailyWalletReport()
	})

	// Old processed transaction cleanup - daily at 3 AM
	s.cron.AddFunc("0 0 3 * * *", func() {
		s.logger.Debug("Running: ledger cleanup")
		s.cleanupOldRecords()
	})

	s.cron.Start()
	s.logger.Info("Cron scheduler started")
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// ── Payment reconciliation ────────────────────────────────────────────

func (s *Scheduler) reconcilePayments() {
	defer s.recoverFromPanic("reconcilePayments")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Ton.PollInterval*4)
	defer cancel()

	s.reconciler.RunCycle(ctx)
}

// ── Daily wallet report ───────────────────────────────────────────────

func (s *Scheduler) dailyWalletReport() {
	defer s.recoverFromPanic("dailyWalletReport")

	if s.cfg.Bot.AdminID == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	balance, err := s.indexer.GetBalance(ctx, s.cfg.Ton.WalletAddress)
	if err != nil {
		s.botAPI.SendMessage(s.cfg.Bot.AdminID,
			fmt.Sprintf("🔴 Wallet balance check failed: %v", err), nil)
		return
	}

	totalUsers, _ := s.repos.User.CountAll()
	activeUsers, _ := s.repos.User.CountActive()
	totalTxs, _ := s.repos.Transaction.CountAll()

	report := fmt.Sprintf(
		"📊 <b>Daily report - %s</b>\n\n"+
			"💰 Wallet balance: %s TON\n"+
			"👤 Users: %s (active packages: %s)\n"+
			"🧾 Processed payments: %s\n",
		time.Now().Format("2006/01/02"),
		utils.FormatTON(balance),
		utils.FormatNumber(totalUsers),
		utils.FormatNumber(activeUsers),
		utils.FormatNumber(totalTxs),
	)
	s.botAPI.SendMessage(s.cfg.Bot.AdminID, report, nil)
}

// ── Ledger cleanup ────────────────────────────────────────────────────

// cleanupOldRecords trims processed transactions older than 30 days.
// The indexer listing window is minutes deep, so entries that old can
// no longer reappear in a cycle and the idempotency guard stays sound.
func (s *Scheduler) cleanupOldRecords() {
	defer s.recoverFromPanic("cleanupOldRecords")

	cutoff := time.Now().AddDate(0, 0, -30)

	removed, err := s.repos.Transaction.DeleteOlderThan(cutoff)
	if err != nil {
		s.logger.Error("Ledger cleanup failed", zap.Error(err))
		return
	}

	// Stale intents this old mean the reconciler sweep has not run for
	// weeks; clean them up anyway.
	stale, err := s.repos.Pending.DeleteOlderThan(cutoff)
	if err != nil {
		s.logger.Error("Pending cleanup failed", zap.Error(err))
	}

	if removed > 0 || stale > 0 {
		s.logger.Info("Ledger cleanup completed",
			zap.Int64("transactions_removed", removed),
			zap.Int64("pendings_removed", stale),
		)
	}
}

func (s *Scheduler) recoverFromPanic(jobName string) {
	if r := recover(); r != nil {
		s.logger.Error("Cron job panicked", zap.String("job", jobName), zap.Any("error", r))
	}
}
