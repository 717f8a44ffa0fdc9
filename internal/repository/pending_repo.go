package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"cgspins/internal/models"
)

// PendingPaymentRepository handles the pending-intent ledger.
type PendingPaymentRepository struct {
	db *gorm.DB
}

func NewPendingPaymentRepository(db *gorm.DB) *PendingPaymentRepository {
	return &PendingPaymentRepository{db: db}
}

// FindByUserID returns the user's pending intent, if any.
func (r *PendingPaymentRepository) FindByUserID(userID int64) (*models.PendingPayment, error) {
	var p models.PendingPayment
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Exists reports whether the user currently has a pending intent.
func (r *PendingPaymentRepository) Exists(userID int64) (bool, error) {
	_, err := r.FindByUserID(userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// Create persists a new intent.
func (r *PendingPaymentRepository) Create(p *models.PendingPayment) error {
	return r.db.Create(p).Error
}

// Delete removes the user's intent. Idempotent: deleting a missing row
// is not an error.
func (r *PendingPaymentRepository) Delete(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PendingPayment{}).Error
}

// FindAll returns every pending intent.
func (r *PendingPaymentRepository) FindAll() ([]models.PendingPayment, error) {
	var pendings []models.PendingPayment
	err := r.db.Find(&pendings).Error
	return pendings, err
}

// DeleteOlderThan removes intents created before the cutoff, returning
// how many were removed.
func (r *PendingPaymentRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff.Unix()).Delete(&models.PendingPayment{})
	return res.RowsAffected, res.Error
}
