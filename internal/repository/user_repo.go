package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"cgspins/internal/models"
)

// UserRepository handles all user account database operations.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID finds a user account by Telegram user ID.
func (r *UserRepository) FindByID(userID int64) (*models.UserAccount, error) {
	var user models.UserAccount
	if err := r.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreate loads a user account, creating the default zero-state
// record on first interaction.
func (r *UserRepository) FindOrCreate(userID int64) (*models.UserAccount, error) {
	user, err := r.FindByID(userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().Unix()
	user = &models.UserAccount{
		UserID:    userID,
		Package:   models.PackageNone,
		Level:     "Spinner",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Save upserts the full account record.
func (r *UserRepository) Save(user *models.UserAccount) error {
	user.UpdatedAt = time.Now().Unix()
	return r.db.Save(user).Error
}

// AddSpinPoints adds points as a commutative increment rather than a
// whole-record overwrite, so interleaved handlers cannot lose updates.
func (r *UserRepository) AddSpinPoints(userID int64, points int) error {
	return r.db.Model(&models.UserAccount{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"spin_points": gorm.Expr("spin_points + ?", points),
			"updated_at":  time.Now().Unix(),
		}).Error
}

// SetLevel stores the derived level for reporting.
func (r *UserRepository) SetLevel(userID int64, level string) error {
	return r.db.Model(&models.UserAccount{}).Where("user_id = ?", userID).
		Update("level", level).Error
}

// IncrementReferrals bumps the referral counter.
func (r *UserRepository) IncrementReferrals(userID int64) error {
	return r.db.Model(&models.UserAccount{}).Where("user_id = ?", userID).
		Update("referrals", gorm.Expr("referrals + 1")).Error
}

// CountAll returns the total number of accounts.
func (r *UserRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.UserAccount{}).Count(&count).Error
	return count, err
}

// CountActive returns accounts with an active package.
func (r *UserRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.UserAccount{}).
		Where("package != ?", models.PackageNone).Count(&count).Error
	return count, err
}

// CountByPackage returns the package distribution.
func (r *UserRepository) CountByPackage() (map[string]int64, error) {
	return r.groupCount("package")
}

// CountByLevel returns the level distribution.
func (r *UserRepository) CountByLevel() (map[string]int64, error) {
	return r.groupCount("level")
}

func (r *UserRepository) groupCount(column string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.UserAccount{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rr := range rows {
		out[rr.Key] = rr.Count
	}
	return out, nil
}
