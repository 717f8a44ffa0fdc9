package repository

import (
	"time"

	"gorm.io/gorm"

	"cgspins/internal/models"
)

// TransactionRepository handles the processed-transaction ledger.
// The ledger is append-only: rows are inserted once and never updated.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Exists reports whether a transaction hash was already credited.
// This is the authoritative idempotency guard.
func (r *TransactionRepository) Exists(txHash string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProcessedTransaction{}).
		Where("tx_hash = ?", txHash).Count(&count).Error
	return count > 0, err
}

// Record inserts a ledger entry. Fails on duplicate hash, which callers
// treat as "already credited".
func (r *TransactionRepository) Record(tx *models.ProcessedTransaction) error {
	if tx.ProcessedAt == 0 {
		tx.ProcessedAt = time.Now().Unix()
	}
	return r.db.Create(tx).Error
}

// FindByUserID returns a user's credited transactions, newest first.
func (r *TransactionRepository) FindByUserID(userID int64) ([]models.ProcessedTransaction, error) {
	var txs []models.ProcessedTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("processed_at DESC").Find(&txs).Error
	return txs, err
}

// CountAll returns the total ledger size.
func (r *TransactionRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.ProcessedTransaction{}).Count(&count).Error
	return count, err
}

// DeleteOlderThan prunes ledger entries past the retention window.
func (r *TransactionRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("processed_at < ?", cutoff.Unix()).
		Delete(&models.ProcessedTransaction{})
	return res.RowsAffected, res.Error
}
