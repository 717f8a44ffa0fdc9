package payment

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"cgspins/internal/config"
	"cgspins/internal/repository"
	"cgspins/internal/tonindexer"
)

// Indexer is the slice of the chain indexer the reconciler consumes.
type Indexer interface {
	ListRecentTransactions(ctx context.Context, address string, limit, maxPages int) []tonindexer.RawTx
	CheckConfirmation(ctx context.Context, txHash string, timeout time.Duration) tonindexer.Confirmation
}

// Reconciler drives the on-chain payment rail: every cycle it sweeps
// stale intents, lists recent wallet transactions, matches them to
// pending intents, awaits confirmation, and hands confirmed matches to
// the Activator. A transaction is credited at most once across all
// cycles and restarts; the processed ledger is the source of truth.
type Reconciler struct {
	indexer   Indexer
	store     *Store
	txs       *repository.TransactionRepository
	activator *Activator
	seen      SeenCache
	cfg       config.TonConfig
	logger    *zap.Logger

	running atomic.Bool
}

func NewReconciler(
	indexer Indexer,
	store *Store,
	txs *repository.TransactionRepository,
	activator *Activator,
	seen SeenCache,
	cfg config.TonConfig,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		indexer:   indexer,
		store:     store,
		txs:       txs,
		activator: activator,
		seen:      seen,
		cfg:       cfg,
		logger:    logger,
	}
}

// RunCycle executes one reconciliation pass. Non-reentrant: if a slow
// cycle is still in flight when the scheduler fires again, the new
// tick returns immediately.
func (r *Reconciler) RunCycle(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn("Reconcile cycle skipped, previous still running")
		return
	}
	defer r.running.Store(false)

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Reconcile cycle panicked", zap.Any("panic", rec))
		}
	}()

	if removed := r.store.SweepExpired(r.cfg.PendingTTL); removed > 0 {
		r.logger.Info("Swept pending payments", zap.Int("removed", removed))
	}

	pendings, err := r.store.ListAll()
	if err != nil {
		r.logger.Error("Listing pending payments failed", zap.Error(err))
		return
	}
	if len(pendings) == 0 {
		return
	}

	txs := r.indexer.ListRecentTransactions(ctx, r.cfg.WalletAddress, r.cfg.ListLimit, r.cfg.ListMaxPages)
	if len(txs) == 0 {
		return
	}

	candidates := r.filterUnprocessed(ctx, txs)
	pairs := MatchTransactions(candidates, pendings, r.cfg.AmountTolerance, nil)
	if len(pairs) == 0 {
		return
	}

	r.logger.Info("Matched transactions",
		zap.Int("pending", len(pendings)),
		zap.Int("matched", len(pairs)),
	)

	for _, pair := range pairs {
		r.settle(ctx, pair)
	}
}

// filterUnprocessed drops transactions already applied: the seen cache
// answers cheaply, the ledger answers authoritatively.
func (r *Reconciler) filterUnprocessed(ctx context.Context, txs []tonindexer.RawTx) []tonindexer.RawTx {
	out := txs[:0:0]
	for _, tx := range txs {
		if r.seen.Seen(ctx, tx.Hash) {
			continue
		}
		processed, err := r.txs.Exists(tx.Hash)
		if err != nil {
			r.logger.Error("Ledger lookup failed",
				zap.String("tx_hash", tx.Hash),
				zap.Error(err),
			)
			continue
		}
		if processed {
			// Backfill the cache so the next cycle skips the DB hit.
			r.seen.Mark(ctx, tx.Hash)
			continue
		}
		out = append(out, tx)
	}
	return out
}

// settle confirms and applies a single matched pair. An unconfirmed or
// unreachable transaction is left alone; the next cycle retries it as
// long as the intent is alive.
func (r *Reconciler) settle(ctx context.Context, pair MatchPair) {
	conf := r.indexer.CheckConfirmation(ctx, pair.Tx.Hash, r.cfg.ConfirmTimeout)
	if !conf.OK || !conf.IsConfirmed {
		r.logger.Info("Match awaiting confirmation",
			zap.Int64("user_id", pair.Intent.UserID),
			zap.String("tx_hash", pair.Tx.Hash),
			zap.Bool("reachable", conf.OK),
		)
		return
	}

	// Re-check both guards after the confirmation wait: the intent may
	// have expired or been superseded, and a concurrent path may have
	// recorded the hash.
	if r.store.Get(pair.Intent.UserID) == nil {
		r.logger.Info("Intent vanished during confirmation wait",
			zap.Int64("user_id", pair.Intent.UserID),
			zap.String("tx_hash", pair.Tx.Hash),
		)
		return
	}
	if processed, err := r.txs.Exists(pair.Tx.Hash); err != nil || processed {
		return
	}

	pkg, ok := config.PackageByKey(pair.Intent.PackageKey)
	if !ok {
		r.logger.Error("Pending payment references unknown package",
			zap.Int64("user_id", pair.Intent.UserID),
			zap.String("package", pair.Intent.PackageKey),
		)
		r.store.Remove(pair.Intent.UserID)
		return
	}

	err := r.activator.Activate(
		pair.Intent.UserID,
		pkg,
		"ton",
		pair.Tx.Hash,
		pair.Intent.PaymentID,
		tonindexer.NormalizeAddress(pair.Tx.SenderAddress),
		pair.Tx.AmountNano,
	)
	switch {
	case err == ErrAlreadyProcessed:
		r.seen.Mark(ctx, pair.Tx.Hash)
	case err != nil:
		r.logger.Error("Activation failed",
			zap.Int64("user_id", pair.Intent.UserID),
			zap.String("tx_hash", pair.Tx.Hash),
			zap.Error(err),
		)
	default:
		// Mark only after a successful apply so a partial failure gets
		// retried or escalated, never silently skipped.
		r.seen.Mark(ctx, pair.Tx.Hash)
	}
}
