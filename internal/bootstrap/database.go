package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"cgspins/internal/models"
)

// MigrateAndSeed creates or updates the schema.
func MigrateAndSeed(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.UserAccount{},
		&models.PendingPayment{},
		&models.ProcessedTransaction{},
		&models.InfluencerCommission{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}
