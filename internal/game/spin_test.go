package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgspins/internal/config"
	"cgspins/internal/models"
)

func testEngine() *Engine {
	return NewEngine(config.GameConfig{
		WinningDiceValue: 64,
		HitPoints:        10,
	}, rand.New(rand.NewSource(1)))
}

func bronzeUser() *models.UserAccount {
	return &models.UserAccount{
		UserID:         1,
		Package:        "Bronze",
		PaymentMethod:  "ton",
		SpinsAvailable: 30,
		Level:          "Spinner",
	}
}

func TestApplySpinLosingRoll(t *testing.T) {
	e := testEngine()
	u := bronzeUser()

	out := e.ApplySpin(12, u)

	assert.False(t, out.IsWin)
	assert.Equal(t, 0, out.PointsAwarded)
	assert.Equal(t, 29, u.SpinsAvailable)
	assert.Equal(t, 1, u.TotalSpins)
	assert.Equal(t, 0, u.SpinPoints)
}

func TestApplySpinOnlyJackpotValueWins(t *testing.T) {
	e := testEngine()

	for dice := 1; dice <= 64; dice++ {
		u := bronzeUser()
		u.Package = "Silver" // threshold 3, one hit won't consume it
		out := e.ApplySpin(dice, u)
		assert.Equal(t, dice == 64, out.IsWin, "dice=%d", dice)
	}
}

func TestApplySpinWinAwardsPointsAndOneHit(t *testing.T) {
	e := testEngine()
	u := bronzeUser()
	u.Package = "Silver"
	u.SpinsAvailable = 60

	out := e.ApplySpin(64, u)

	assert.True(t, out.IsWin)
	assert.Equal(t, 10, out.PointsAwarded)
	assert.True(t, out.HitRecorded)
	assert.Equal(t, 1, u.Hits)
	assert.Equal(t, 10, u.SpinPoints)
	assert.False(t, out.NFTEarned)
	assert.Equal(t, 59, u.SpinsAvailable)
}

func TestApplySpinNFTThresholdConsumesPackage(t *testing.T) {
	e := testEngine()
	u := bronzeUser() // Bronze needs 1 hit

	out := e.ApplySpin(64, u)

	require.True(t, out.NFTEarned)
	assert.NotEmpty(t, out.NFTName)
	assert.Contains(t, config.NFTPools["Bronze"], out.NFTName)
	assert.Equal(t, []string{out.NFTName}, u.NFTList())

	// Package consumed even though spins remained.
	assert.Equal(t, models.PackageNone, u.Package)
	assert.Equal(t, "", u.PaymentMethod)
	assert.Equal(t, 0, u.SpinsAvailable)
	assert.Equal(t, 0, u.Hits)

	// Points survive the reset.
	assert.Equal(t, 10, u.SpinPoints)
}

func TestApplySpinNFTPriorityOverExhaustion(t *testing.T) {
	e := testEngine()
	u := bronzeUser()
	u.SpinsAvailable = 1 // last spin AND the winning hit

	out := e.ApplySpin(64, u)

	assert.True(t, out.NFTEarned)
	assert.False(t, out.PackageExhausted)
	assert.Equal(t, models.PackageNone, u.Package)
}

func TestApplySpinExhaustionReset(t *testing.T) {
	e := testEngine()
	u := bronzeUser()
	u.SpinsAvailable = 1

	out := e.ApplySpin(3, u)

	assert.True(t, out.PackageExhausted)
	assert.False(t, out.NFTEarned)
	assert.Equal(t, models.PackageNone, u.Package)
	assert.Equal(t, 0, u.SpinsAvailable)
}

func TestApplySpinWinBelowThresholdNoReset(t *testing.T) {
	e := testEngine()
	u := bronzeUser()
	u.Package = "Black" // needs 25 hits
	u.SpinsAvailable = 600

	for i := 0; i < 24; i++ {
		out := e.ApplySpin(64, u)
		assert.False(t, out.NFTEarned, "hit %d", i+1)
	}
	assert.Equal(t, 24, u.Hits)
	assert.Equal(t, "Black", u.Package)

	out := e.ApplySpin(64, u)
	assert.True(t, out.NFTEarned)
}

func TestApplySpinWinWithoutPackageStillEarnsPoints(t *testing.T) {
	e := testEngine()
	u := &models.UserAccount{UserID: 2, Package: models.PackageNone, SpinsAvailable: 0}

	out := e.ApplySpin(64, u)

	assert.True(t, out.IsWin)
	assert.False(t, out.HitRecorded)
	assert.Equal(t, 10, u.SpinPoints)
	assert.Equal(t, 0, u.Hits)
}

func TestApplySpinLevelChange(t *testing.T) {
	e := testEngine()
	u := bronzeUser()
	u.Package = "Gold"
	u.SpinsAvailable = 300
	u.SpinPoints = 15
	u.Level = "Spinner"

	out := e.ApplySpin(64, u)

	assert.True(t, out.LevelChanged)
	assert.Equal(t, "Collector", u.Level)
}

func TestCalculateLevel(t *testing.T) {
	cases := []struct {
		points int
		level  string
	}{
		{0, "Spinner"},
		{19, "Spinner"},
		{20, "Collector"},
		{49, "Collector"},
		{50, "VIP"},
		{99, "VIP"},
		{100, "High-Roller"},
		{100000, "High-Roller"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, CalculateLevel(tc.points), "points=%d", tc.points)
	}
}

func TestLevelProgress(t *testing.T) {
	level, progress, needed := LevelProgress(25)
	assert.Equal(t, "Collector", level)
	assert.Equal(t, 5, progress)
	assert.Equal(t, 30, needed)

	level, progress, needed = LevelProgress(500)
	assert.Equal(t, "High-Roller", level)
	assert.Equal(t, 0, progress)
	assert.Equal(t, 0, needed)
}

func TestRewardForPackage(t *testing.T) {
	assert.Equal(t, 5, RewardForPackage("bronze"))
	assert.Equal(t, 10, RewardForPackage("silver"))
	assert.Equal(t, 25, RewardForPackage("gold"))
	assert.Equal(t, 50, RewardForPackage("black"))
	assert.Equal(t, 5, RewardForPackage("unknown"))
}

func TestCommissionUSD(t *testing.T) {
	pkg, _ := config.PackageByKey("bronze")
	// 2 TON * 5 USD/TON * 20% = 2 USD
	assert.InDelta(t, 2.0, CommissionUSD(pkg, 0.2, 5.0), 1e-9)
}
