package repository

import (
	"time"

	"gorm.io/gorm"

	"cgspins/internal/models"
)

// CommissionRepository handles the influencer commission ledger.
type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// Record inserts a commission row.
func (r *CommissionRepository) Record(c *models.InfluencerCommission) error {
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}
	return r.db.Create(c).Error
}

// TotalEarnings returns an influencer's aggregate USD earnings.
func (r *CommissionRepository) TotalEarnings(influencerID int64) (float64, error) {
	var total float64
	err := r.db.Model(&models.InfluencerCommission{}).
		Where("influencer_id = ?", influencerID).
		Select("COALESCE(SUM(amount_usd), 0)").Scan(&total).Error
	return total, err
}

// FindByInfluencer returns an influencer's commissions, newest first.
func (r *CommissionRepository) FindByInfluencer(influencerID int64) ([]models.InfluencerCommission, error) {
	var rows []models.InfluencerCommission
	err := r.db.Where("influencer_id = ?", influencerID).
		Order("created_at DESC").Find(&rows).Error
	return rows, err
}
