package payment

import (
	"fmt"

	"go.uber.org/zap"

	"cgspins/internal/config"
	"cgspins/internal/game"
	"cgspins/internal/models"
	"cgspins/internal/pkg/utils"
	"cgspins/internal/repository"
)

// Notifier delivers outward notifications after state transitions.
// Fire-and-forget: implementations log failures, never surface them.
type Notifier interface {
	NotifyUser(userID int64, text string)
	NotifyAdmin(text string)
}

// Activator is the single "activate package" path shared by both
// payment rails. The on-chain reconciler and the Stars success
// callback both land here, so the idempotency ledger and the account
// mutation are identical regardless of how the money arrived.
type Activator struct {
	users       *repository.UserRepository
	txs         *repository.TransactionRepository
	commissions *repository.CommissionRepository
	store       *Store
	notifier    Notifier
	tonToUSD    float64
	logger      *zap.Logger
}

func NewActivator(
	users *repository.UserRepository,
	txs *repository.TransactionRepository,
	commissions *repository.CommissionRepository,
	store *Store,
	notifier Notifier,
	tonToUSD float64,
	logger *zap.Logger,
) *Activator {
	return &Activator{
		users:       users,
		txs:         txs,
		commissions: commissions,
		store:       store,
		notifier:    notifier,
		tonToUSD:    tonToUSD,
		logger:      logger,
	}
}

// Activate credits one confirmed payment: ledger first, then the
// account mutation, referral rewards, intent removal, notifications.
//
// The ledger write happens before any mutation so a failure partway
// fails safe toward "recorded but not applied", which is surfaced for
// manual remediation, never toward double-credit. Errors after the
// ledger write are returned but the ledger entry is deliberately kept.
func (a *Activator) Activate(userID int64, pkg config.Package, method, txHash, paymentID, sourceWallet string, amountNano int64) error {
	exists, err := a.txs.Exists(txHash)
	if err != nil {
		return fmt.Errorf("ledger check failed: %w", err)
	}
	if exists {
		return ErrAlreadyProcessed
	}

	entry := &models.ProcessedTransaction{
		TxHash:       txHash,
		UserID:       userID,
		PackageKey:   pkg.Key,
		AmountNano:   amountNano,
		PaymentID:    paymentID,
		SourceWallet: sourceWallet,
	}
	if err := a.txs.Record(entry); err != nil {
		return fmt.Errorf("ledger write failed: %w", err)
	}

	if err := a.applyActivation(userID, pkg, method); err != nil {
		// Recorded but not applied. Keeping the ledger entry blocks a
		// retry from double-crediting; an operator resolves it.
		a.logger.Error("Payment recorded but activation failed",
			zap.Int64("user_id", userID),
			zap.String("tx_hash", txHash),
			zap.String("package", pkg.Key),
			zap.Error(err),
		)
		a.notifier.NotifyAdmin(fmt.Sprintf(
			"⚠️ Payment recorded but NOT applied, manual reconciliation needed\nUser: %d\nPackage: %s\nTx: %s\nError: %v",
			userID, pkg.Name, txHash, err,
		))
		return err
	}

	a.applyReferralRewards(userID, pkg, method, txHash)
	a.store.Remove(userID)

	a.notifier.NotifyUser(userID, fmt.Sprintf(
		"✅ Payment confirmed!\n\n🎁 Package: %s\n🎰 Spins granted: %d\n\nSend 🎰 to start spinning!",
		pkg.Name, pkg.Spins,
	))
	a.notifier.NotifyAdmin(fmt.Sprintf(
		"💵 New payment\nUser: %d\nPackage: %s\nAmount: %s TON\nMethod: %s\nTx: %s",
		userID, pkg.Name, utils.FormatTON(amountNano), method, txHash,
	))

	a.logger.Info("Package activated",
		zap.Int64("user_id", userID),
		zap.String("package", pkg.Key),
		zap.String("method", method),
		zap.String("tx_hash", txHash),
	)
	return nil
}

func (a *Activator) applyActivation(userID int64, pkg config.Package, method string) error {
	user, err := a.users.FindOrCreate(userID)
	if err != nil {
		return err
	}

	user.Package = pkg.Name
	user.PaymentMethod = method
	user.SpinsAvailable = pkg.Spins
	user.TotalSpins = 0
	user.Hits = 0
	return a.users.Save(user)
}

// applyReferralRewards pays the referrer's package-specific reward and
// records influencer commission. Best-effort: a failed reward never
// rolls back the activation.
func (a *Activator) applyReferralRewards(userID int64, pkg config.Package, method, txHash string) {
	user, err := a.users.FindByID(userID)
	if err != nil || user.ReferredBy == 0 {
		return
	}
	referrerID := user.ReferredBy

	reward := game.RewardForPackage(pkg.Key)
	if err := a.users.AddSpinPoints(referrerID, reward); err != nil {
		a.logger.Warn("Referral reward failed",
			zap.Int64("referrer_id", referrerID),
			zap.Error(err),
		)
		return
	}
	if referrer, err := a.users.FindByID(referrerID); err == nil {
		_ = a.users.SetLevel(referrerID, game.CalculateLevel(referrer.SpinPoints))
	}

	a.logger.Info("Referral reward applied",
		zap.Int64("referrer_id", referrerID),
		zap.Int64("referred_id", userID),
		zap.Int("points", reward),
	)

	influencer, ok := config.Influencers[referrerID]
	if !ok {
		return
	}
	commission := game.CommissionUSD(pkg, influencer.Rate, a.tonToUSD)
	err = a.commissions.Record(&models.InfluencerCommission{
		InfluencerID:   referrerID,
		ReferredUserID: userID,
		PackageKey:     pkg.Key,
		AmountUSD:      commission,
		Rate:           influencer.Rate,
		PaymentType:    method,
		TxID:           txHash,
	})
	if err != nil {
		a.logger.Warn("Influencer commission write failed",
			zap.Int64("influencer_id", referrerID),
			zap.Error(err),
		)
	}
}

// ActivateStarsPurchase credits an in-app Stars payment. It writes a
// synthetic ledger entry and runs the same activation path as the
// on-chain rail; any pending TON intent for the same purchase is
// removed as part of it (mutual exclusion between the rails).
func (a *Activator) ActivateStarsPurchase(userID int64, packageKey, starsTxID string) error {
	pkg, ok := config.PackageByKey(packageKey)
	if !ok {
		return ErrInvalidPackage
	}

	user, err := a.users.FindOrCreate(userID)
	if err != nil {
		return err
	}
	if user.HasActivePackage() {
		return ErrAlreadyActive
	}

	synthetic := "stars:" + starsTxID
	if starsTxID == "" {
		synthetic = "stars:" + utils.NewPaymentID()
	}
	return a.Activate(userID, pkg, "stars", synthetic, "", "", int64(pkg.PriceStars))
}
