package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cgspins/internal/config"
	"cgspins/internal/models"
	"cgspins/internal/repository"
)

func newServiceFixture(t *testing.T) (*SpinService, *repository.UserRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.UserAccount{}))

	users := repository.NewUserRepository(db)
	engine := NewEngine(config.GameConfig{WinningDiceValue: 64, HitPoints: 10}, rand.New(rand.NewSource(1)))
	return NewSpinService(users, engine, 2, zap.NewNop()), users
}

func grantPackage(t *testing.T, users *repository.UserRepository, userID int64, pkgName string, spins int) {
	t.Helper()
	u, err := users.FindOrCreate(userID)
	require.NoError(t, err)
	u.Package = pkgName
	u.PaymentMethod = "ton"
	u.SpinsAvailable = spins
	require.NoError(t, users.Save(u))
}

func TestSpinRejectsWithoutPackage(t *testing.T) {
	svc, _ := newServiceFixture(t)

	_, err := svc.Spin(1, 32)
	assert.ErrorIs(t, err, ErrOutOfSpins)
}

func TestSpinPersistsOutcome(t *testing.T) {
	svc, users := newServiceFixture(t)
	grantPackage(t, users, 1, "Silver", 60)

	result, err := svc.Spin(1, 7)
	require.NoError(t, err)
	assert.False(t, result.Outcome.IsWin)

	u, err := users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, 59, u.SpinsAvailable)
	assert.Equal(t, 1, u.TotalSpins)
}

func TestSpinWinPersistsNFT(t *testing.T) {
	svc, users := newServiceFixture(t)
	grantPackage(t, users, 1, "Bronze", 30)

	result, err := svc.Spin(1, 64)
	require.NoError(t, err)
	require.True(t, result.Outcome.NFTEarned)

	u, err := users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, []string{result.Outcome.NFTName}, u.NFTList())
	assert.Equal(t, models.PackageNone, u.Package)
}

func TestSpinLastSpinRejectsNext(t *testing.T) {
	svc, users := newServiceFixture(t)
	grantPackage(t, users, 1, "Bronze", 1)

	_, err := svc.Spin(1, 5)
	require.NoError(t, err)

	_, err = svc.Spin(1, 5)
	assert.ErrorIs(t, err, ErrOutOfSpins)
}

func TestRegisterReferral(t *testing.T) {
	svc, users := newServiceFixture(t)

	require.NoError(t, svc.RegisterReferral(1, 100))

	u, err := users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), u.ReferredBy)
	assert.Equal(t, 2, u.SpinPoints) // welcome bonus

	referrer, err := users.FindByID(100)
	require.NoError(t, err)
	assert.Equal(t, 1, referrer.Referrals)
}

func TestRegisterReferralIgnoresSelfAndRepeat(t *testing.T) {
	svc, users := newServiceFixture(t)

	require.NoError(t, svc.RegisterReferral(1, 1)) // self
	require.NoError(t, svc.RegisterReferral(1, 100))
	require.NoError(t, svc.RegisterReferral(1, 200)) // already linked

	u, err := users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), u.ReferredBy)
	assert.Equal(t, 2, u.SpinPoints) // bonus granted once

	referrer, err := users.FindByID(100)
	require.NoError(t, err)
	assert.Equal(t, 1, referrer.Referrals)
}
