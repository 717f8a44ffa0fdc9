package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"cgspins/internal/config"
	"cgspins/internal/game"
	"cgspins/internal/payment"
	"cgspins/internal/pkg/utils"
	"cgspins/internal/tonindexer"
)

// handleStart greets the user and registers a referral when the deep
// link payload carries one ("/start ref_<id>").
func (b *Bot) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	payload := strings.TrimSpace(c.Message().Payload)
	if strings.HasPrefix(payload, "ref_") {
		referrerID, err := strconv.ParseInt(strings.TrimPrefix(payload, "ref_"), 10, 64)
		if err == nil {
			if err := b.spins.RegisterReferral(userID, referrerID); err != nil {
				b.logger.Warn("Referral registration failed",
					zap.Int64("user_id", userID),
					zap.Int64("referrer_id", referrerID),
					zap.Error(err),
				)
			}
		}
	}

	user, err := b.repos.User.FindOrCreate(userID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"🎰 <b>Welcome to CG Spins!</b>\n\n"+
			"Buy a package, send 🎰 and hit the jackpot to win NFTs.\n\n"+
			"%s Level: %s\n⭐ Points: %d\n\n"+
			"Your referral link:\nhttps://t.me/%s?start=ref_%d",
		game.LevelEmoji(user.Level), user.Level, user.SpinPoints,
		b.cfg.Bot.Username, userID,
	)
	return c.Send(text, b.keyboard.MainMenu(), tele.ModeHTML)
}

// handleStats shows the user's account summary.
func (b *Bot) handleStats(c tele.Context) error {
	user, err := b.repos.User.FindOrCreate(c.Sender().ID)
	if err != nil {
		return err
	}

	level, progress, needed := game.LevelProgress(user.SpinPoints)
	progressLine := "max level reached"
	if needed > 0 {
		progressLine = fmt.Sprintf("%d/%d to next level", progress, needed)
	}

	nfts := user.NFTList()
	nftLine := "none yet"
	if len(nfts) > 0 {
		nftLine = strings.Join(nfts, ", ")
	}

	text := fmt.Sprintf(
		"📊 <b>Your stats</b>\n\n"+
			"🎁 Package: %s\n"+
			"🎰 Spins left: %d\n"+
			"🎯 Hits: %d\n"+
			"⭐ Points: %d\n"+
			"%s Level: %s (%s)\n"+
			"🖼 NFTs: %s\n"+
			"👥 Referrals: %d",
		user.Package, user.SpinsAvailable, user.Hits, user.SpinPoints,
		game.LevelEmoji(level), level, progressLine,
		nftLine, user.Referrals,
	)
	return c.Send(text, tele.ModeHTML)
}

// handleBuy shows the package catalogue.
func (b *Bot) handleBuy(c tele.Context) error {
	return c.Send(
		"🎁 <b>Choose your package:</b>",
		b.keyboard.Packages(),
		tele.ModeHTML,
	)
}

// handleDice processes a 🎰 roll. Other dice emojis are ignored.
func (b *Bot) handleDice(c tele.Context) error {
	dice := c.Message().Dice
	if dice == nil || dice.Type != "🎰" {
		return nil
	}

	result, err := b.spins.Spin(c.Sender().ID, dice.Value)
	if errors.Is(err, game.ErrOutOfSpins) {
		return c.Send(
			"😕 No spins left. Grab a package to keep playing!",
			b.keyboard.Packages(),
			tele.ModeHTML,
		)
	}
	if err != nil {
		b.logger.Error("Spin failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
		return c.Send("⚠️ Something went wrong, try again.")
	}

	return c.Send(b.spinResultText(result), tele.ModeHTML)
}

func (b *Bot) spinResultText(result *game.SpinResult) string {
	out := result.Outcome
	acct := result.Account

	var sb strings.Builder
	if out.IsWin {
		sb.WriteString(fmt.Sprintf("🎉 <b>JACKPOT!</b> +%d points\n", out.PointsAwarded))
	} else {
		sb.WriteString("😔 No luck this time.\n")
	}

	if out.NFTEarned {
		sb.WriteString(fmt.Sprintf("\n🖼 <b>You won an NFT: %s!</b>\nYour package is complete.\n", out.NFTName))
	} else if out.PackageExhausted {
		sb.WriteString("\n📦 That was your last spin. Buy a new package to continue!\n")
	}

	if out.LevelChanged {
		sb.WriteString(fmt.Sprintf("\n%s Level up: <b>%s</b>!\n", game.LevelEmoji(acct.Level), acct.Level))
	}

	sb.WriteString(fmt.Sprintf("\n🎰 Spins left: %d | ⭐ Points: %d", acct.SpinsAvailable, acct.SpinPoints))
	return sb.String()
}

// handleCallback routes inline button presses.
func (b *Bot) handleCallback(c tele.Context) error {
	data := strings.TrimSpace(strings.TrimPrefix(c.Callback().Data, "\f"))

	switch {
	case data == "show_packages":
		_ = c.Respond()
		return b.handleBuy(c)
	case data == "show_stats":
		_ = c.Respond()
		return b.handleStats(c)
	case strings.HasPrefix(data, "pkg:"):
		return b.handlePackageSelected(c, strings.TrimPrefix(data, "pkg:"))
	case strings.HasPrefix(data, "pay_ton:"):
		return b.handlePayTON(c, strings.TrimPrefix(data, "pay_ton:"))
	case strings.HasPrefix(data, "pay_stars:"):
		return b.handlePayStars(c, strings.TrimPrefix(data, "pay_stars:"))
	case data == "cancel_payment":
		b.store.Remove(c.Sender().ID)
		_ = c.Respond(&tele.CallbackResponse{Text: "Payment cancelled"})
		return c.Send("❌ Pending payment cancelled.")
	}
	return c.Respond()
}

func (b *Bot) handlePackageSelected(c tele.Context, key string) error {
	pkg, ok := config.PackageByKey(key)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown package"})
	}
	_ = c.Respond()

	text := fmt.Sprintf(
		"🎁 <b>%s</b>\n%s\n\n"+
			"🎰 Spins: %d\n🎯 Hits for NFT: %d\n\n"+
			"💎 %s TON or ⭐ %d Stars",
		pkg.Name, pkg.Description,
		pkg.Spins, pkg.HitsRequired,
		utils.FormatTON(pkg.AmountNano), pkg.PriceStars,
	)
	return c.Send(text, b.keyboard.PaymentMethods(pkg.Key), tele.ModeHTML)
}

// handlePayTON creates a pending intent and shows transfer instructions
// with the memo token the reconciler matches on.
func (b *Bot) handlePayTON(c tele.Context, key string) error {
	_ = c.Respond()

	intent, err := b.store.Create(c.Sender().ID, key)
	if errors.Is(err, payment.ErrAlreadyActive) {
		return c.Send("⚠️ You already have an active package or a pending payment. Cancel it first or finish playing.")
	}
	if errors.Is(err, payment.ErrInvalidPackage) {
		return c.Send("⚠️ Unknown package.")
	}
	if err != nil {
		b.logger.Error("Pending payment create failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
		return c.Send("⚠️ Something went wrong, try again.")
	}

	text := fmt.Sprintf(
		"💎 <b>Pay with TON</b>\n\n"+
			"Send exactly <b>%s TON</b> to:\n<code>%s</code>\n\n"+
			"⚠️ Include this comment with your transfer:\n<code>%s</code>\n\n"+
			"Your package activates automatically once the transfer is confirmed on-chain (usually within a minute). The payment request expires in %d minutes.",
		utils.FormatTON(intent.AmountNano),
		tonindexer.FriendlyAddress(b.cfg.Ton.WalletAddress),
		intent.PaymentID,
		int(b.cfg.Ton.PendingTTL.Minutes()),
	)
	return c.Send(text, b.keyboard.CancelPayment(), tele.ModeHTML)
}

// handlePayStars sends a Telegram Stars invoice (currency XTR).
func (b *Bot) handlePayStars(c tele.Context, key string) error {
	pkg, ok := config.PackageByKey(key)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown package"})
	}
	_ = c.Respond()

	invoice := &tele.Invoice{
		Title:       pkg.Name + " Package",
		Description: fmt.Sprintf("%d spins, %d hits for an NFT", pkg.Spins, pkg.HitsRequired),
		Payload:     "pkg:" + pkg.Key,
		Currency:    "XTR",
		Prices: []tele.Price{
			{Label: pkg.Name, Amount: pkg.PriceStars},
		},
	}
	_, err := invoice.Send(b.tb, c.Recipient(), nil)
	if err != nil {
		b.logger.Error("Stars invoice failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
		return c.Send("⚠️ Could not create the invoice, try again.")
	}
	return nil
}

// handlePreCheckout approves a Stars pre-checkout when the user can
// still buy the package. Telegram requires an answer within 10 seconds.
func (b *Bot) handlePreCheckout(c tele.Context) error {
	query := c.PreCheckoutQuery()

	key := strings.TrimPrefix(query.Payload, "pkg:")
	if _, ok := config.PackageByKey(key); !ok {
		return c.Accept("Unknown package")
	}

	user, err := b.repos.User.FindOrCreate(query.Sender.ID)
	if err != nil {
		return c.Accept("Temporary error, please retry")
	}
	if user.HasActivePackage() {
		return c.Accept("You already have an active package")
	}
	return c.Accept()
}

// handleSuccessfulPayment lands a completed Stars payment on the shared
// activation path. Retried Telegram callbacks are absorbed by the
// processed ledger.
func (b *Bot) handleSuccessfulPayment(c tele.Context) error {
	pay := c.Message().Payment
	userID := c.Sender().ID

	key := strings.TrimPrefix(pay.Payload, "pkg:")
	err := b.activator.ActivateStarsPurchase(userID, key, pay.TelegramChargeID)
	switch {
	case errors.Is(err, payment.ErrAlreadyProcessed):
		return nil
	case errors.Is(err, payment.ErrAlreadyActive):
		return c.Send("⚠️ You already have an active package. Contact support if this payment was charged.")
	case err != nil:
		b.logger.Error("Stars activation failed",
			zap.Int64("user_id", userID),
			zap.String("charge_id", pay.TelegramChargeID),
			zap.Error(err),
		)
		return c.Send("⚠️ Payment received but activation failed. Support has been notified.")
	}
	return nil
}
