package bot

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"cgspins/internal/config"
	"cgspins/internal/game"
	"cgspins/internal/payment"
	"cgspins/internal/repository"
)

// Bot wraps the telebot instance and handlers.
type Bot struct {
	tb        *tele.Bot
	cfg       *config.Config
	repos     *BotRepos
	spins     *game.SpinService
	store     *payment.Store
	activator *payment.Activator
	logger    *zap.Logger
	keyboard  *KeyboardBuilder
}

// BotRepos bundles all repositories needed by bot handlers.
type BotRepos struct {
	User        *repository.UserRepository
	Pending     *repository.PendingPaymentRepository
	Transaction *repository.TransactionRepository
	Commission  *repository.CommissionRepository
}

// New creates and configures a new Bot instance.
func New(
	cfg *config.Config,
	repos *BotRepos,
	spins *game.SpinService,
	store *payment.Store,
	activator *payment.Activator,
	logger *zap.Logger,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("telebot error", zap.Error(err))
		},
	}

	tb, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telebot: %w", err)
	}

	b := &Bot{
		tb:        tb,
		cfg:       cfg,
		repos:     repos,
		spins:     spins,
		store:     store,
		activator: activator,
		logger:    logger,
		keyboard:  NewKeyboardBuilder(),
	}

	b.registerHandlers()

	return b, nil
}

// Start begins long polling.
func (b *Bot) Start() {
	if err := b.tb.RemoveWebhook(true); err != nil {
		b.logger.Warn("Failed to remove webhook before long polling", zap.Error(err))
	}
	b.logger.Info("Starting Telegram bot", zap.String("mode", "polling"))
	b.tb.Start()
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() {
	b.tb.Stop()
}

// registerHandlers sets up all bot message and callback handlers.
func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/stats", b.handleStats)
	b.tb.Handle("/buy", b.handleBuy)
	b.tb.Handle(tele.OnDice, b.handleDice)
	b.tb.Handle(tele.OnCallback, b.handleCallback)
	b.tb.Handle(tele.OnCheckout, b.handlePreCheckout)
	b.tb.Handle(tele.OnPayment, b.handleSuccessfulPayment)
}
