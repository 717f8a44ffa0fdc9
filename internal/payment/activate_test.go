package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cgspins/internal/config"
	"cgspins/internal/models"
	"cgspins/internal/repository"
)

type activatorFixture struct {
	activator *Activator
	store     *Store
	users     *repository.UserRepository
	txs       *repository.TransactionRepository
	comms     *repository.CommissionRepository
	notifier  *recordingNotifier
	db        *gorm.DB
}

func newActivatorFixture(t *testing.T) *activatorFixture {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	pendings := repository.NewPendingPaymentRepository(db)
	txs := repository.NewTransactionRepository(db)
	comms := repository.NewCommissionRepository(db)
	notifier := &recordingNotifier{}
	store := NewStore(pendings, users, zap.NewNop())

	return &activatorFixture{
		activator: NewActivator(users, txs, comms, store, notifier, 5.0, zap.NewNop()),
		store:     store,
		users:     users,
		txs:       txs,
		comms:     comms,
		notifier:  notifier,
		db:        db,
	}
}

func TestActivateCreditsPackage(t *testing.T) {
	f := newActivatorFixture(t)
	pkg, _ := config.PackageByKey("bronze")

	intent, err := f.store.Create(1, "bronze")
	require.NoError(t, err)

	err = f.activator.Activate(1, pkg, "ton", "hash1", intent.PaymentID, "0:sender", 2_000_000_000)
	require.NoError(t, err)

	u, err := f.users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Bronze", u.Package)
	assert.Equal(t, "ton", u.PaymentMethod)
	assert.Equal(t, 30, u.SpinsAvailable)
	assert.Equal(t, 0, u.Hits)

	// Intent consumed, ledger written, both sides notified.
	assert.Nil(t, f.store.Get(1))
	exists, err := f.txs.Exists("hash1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Len(t, f.notifier.user, 1)
	assert.Len(t, f.notifier.admin, 1)
}

func TestActivateIdempotent(t *testing.T) {
	f := newActivatorFixture(t)
	pkg, _ := config.PackageByKey("bronze")

	require.NoError(t, f.activator.Activate(1, pkg, "ton", "hash1", "abc123", "", 2_000_000_000))

	err := f.activator.Activate(1, pkg, "ton", "hash1", "abc123", "", 2_000_000_000)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	// No double credit: spins stay at the single grant.
	u, err := f.users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, 30, u.SpinsAvailable)
}

func TestActivatePaysReferralReward(t *testing.T) {
	f := newActivatorFixture(t)
	pkg, _ := config.PackageByKey("gold")

	referrer, err := f.users.FindOrCreate(100)
	require.NoError(t, err)
	assert.Equal(t, 0, referrer.SpinPoints)

	buyer, err := f.users.FindOrCreate(1)
	require.NoError(t, err)
	buyer.ReferredBy = 100
	require.NoError(t, f.users.Save(buyer))

	require.NoError(t, f.activator.Activate(1, pkg, "ton", "hash1", "abc123", "", pkg.AmountNano))

	referrer, err = f.users.FindByID(100)
	require.NoError(t, err)
	assert.Equal(t, 25, referrer.SpinPoints)
	assert.Equal(t, "Collector", referrer.Level)
}

func TestActivateRecordsInfluencerCommission(t *testing.T) {
	f := newActivatorFixture(t)
	pkg, _ := config.PackageByKey("bronze")

	config.Influencers[200] = config.Influencer{Tier: 1, Rate: 0.2, Name: "test"}
	defer delete(config.Influencers, 200)

	buyer, err := f.users.FindOrCreate(1)
	require.NoError(t, err)
	buyer.ReferredBy = 200
	require.NoError(t, f.users.Save(buyer))
	_, err = f.users.FindOrCreate(200)
	require.NoError(t, err)

	require.NoError(t, f.activator.Activate(1, pkg, "ton", "hash1", "abc123", "", pkg.AmountNano))

	total, err := f.comms.TotalEarnings(200)
	require.NoError(t, err)
	// 2 TON * 5 USD/TON * 20%
	assert.InDelta(t, 2.0, total, 1e-9)
}

func TestActivateStarsPurchase(t *testing.T) {
	f := newActivatorFixture(t)

	err := f.activator.ActivateStarsPurchase(1, "silver", "charge-1")
	require.NoError(t, err)

	u, err := f.users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Silver", u.Package)
	assert.Equal(t, "stars", u.PaymentMethod)
	assert.Equal(t, 60, u.SpinsAvailable)

	exists, err := f.txs.Exists("stars:charge-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestActivateStarsPurchaseRejectsActivePackage(t *testing.T) {
	f := newActivatorFixture(t)

	require.NoError(t, f.activator.ActivateStarsPurchase(1, "silver", "charge-1"))

	err := f.activator.ActivateStarsPurchase(1, "bronze", "charge-2")
	assert.ErrorIs(t, err, ErrAlreadyActive)
}

func TestActivateStarsPurchaseRetryAbsorbed(t *testing.T) {
	f := newActivatorFixture(t)

	require.NoError(t, f.activator.ActivateStarsPurchase(1, "silver", "charge-1"))

	// Consume the package, then replay the same Telegram callback.
	u, err := f.users.FindByID(1)
	require.NoError(t, err)
	u.Package = models.PackageNone
	u.PaymentMethod = ""
	u.SpinsAvailable = 0
	require.NoError(t, f.users.Save(u))

	err = f.activator.ActivateStarsPurchase(1, "silver", "charge-1")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestActivateStarsPurchaseInvalidPackage(t *testing.T) {
	f := newActivatorFixture(t)
	err := f.activator.ActivateStarsPurchase(1, "diamond", "charge-1")
	assert.ErrorIs(t, err, ErrInvalidPackage)
}

func TestActivateStarsRemovesPendingTONIntent(t *testing.T) {
	f := newActivatorFixture(t)

	_, err := f.store.Create(1, "bronze")
	require.NoError(t, err)

	require.NoError(t, f.activator.ActivateStarsPurchase(1, "bronze", "charge-1"))

	assert.Nil(t, f.store.Get(1))
}
