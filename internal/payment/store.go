package payment

import (
	"time"

	"go.uber.org/zap"

	"cgspins/internal/config"
	"cgspins/internal/models"
	"cgspins/internal/pkg/utils"
	"cgspins/internal/repository"
)

// Store manages pending on-chain payment intents: one per user,
// created on package selection and destroyed on match, expiry, or
// supersession by the Stars rail.
type Store struct {
	pendings *repository.PendingPaymentRepository
	users    *repository.UserRepository
	logger   *zap.Logger
}

func NewStore(pendings *repository.PendingPaymentRepository, users *repository.UserRepository, logger *zap.Logger) *Store {
	return &Store{pendings: pendings, users: users, logger: logger}
}

// Create records a new payment intent. Fails with ErrInvalidPackage
// for unknown keys and ErrAlreadyActive when the user holds an active
// package, a prior rail activation, or an existing intent.
func (s *Store) Create(userID int64, packageKey string) (*models.PendingPayment, error) {
	pkg, ok := config.PackageByKey(packageKey)
	if !ok {
		return nil, ErrInvalidPackage
	}

	user, err := s.users.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if user.HasActivePackage() || user.PaymentMethod != "" {
		return nil, ErrAlreadyActive
	}

	exists, err := s.pendings.Exists(userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyActive
	}

	intent := &models.PendingPayment{
		UserID:     userID,
		PackageKey: pkg.Key,
		PaymentID:  utils.NewPaymentID(),
		AmountNano: pkg.AmountNano,
		CreatedAt:  time.Now().Unix(),
	}
	if err := s.pendings.Create(intent); err != nil {
		return nil, err
	}

	s.logger.Info("Created pending payment",
		zap.Int64("user_id", userID),
		zap.String("package", pkg.Key),
		zap.String("payment_id", intent.PaymentID),
		zap.Int64("amount_nano", intent.AmountNano),
	)
	return intent, nil
}

// Get returns the user's intent, or nil when absent.
func (s *Store) Get(userID int64) *models.PendingPayment {
	intent, err := s.pendings.FindByUserID(userID)
	if err != nil {
		return nil
	}
	return intent
}

// Remove deletes the user's intent. Idempotent.
func (s *Store) Remove(userID int64) {
	if err := s.pendings.Delete(userID); err != nil {
		s.logger.Error("Failed to remove pending payment",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

// ListAll returns all intents keyed by user ID, from durable state.
func (s *Store) ListAll() (map[int64]models.PendingPayment, error) {
	pendings, err := s.pendings.FindAll()
	if err != nil {
		return nil, err
	}
	out := make(map[int64]models.PendingPayment, len(pendings))
	for _, p := range pendings {
		out[p.UserID] = p
	}
	return out, nil
}

// SweepExpired removes intents older than the TTL, plus intents whose
// user has since activated a package via the other rail. The second
// condition is a correctness requirement: a Stars purchase must not
// leave behind a stale intent that a late-arriving transaction could
// credit a second time.
func (s *Store) SweepExpired(ttl time.Duration) int {
	pendings, err := s.pendings.FindAll()
	if err != nil {
		s.logger.Error("Pending sweep failed", zap.Error(err))
		return 0
	}

	now := time.Now().Unix()
	removed := 0
	for _, intent := range pendings {
		if now-intent.CreatedAt > int64(ttl.Seconds()) {
			s.logger.Info("Expiring pending payment",
				zap.Int64("user_id", intent.UserID),
				zap.String("payment_id", intent.PaymentID),
				zap.Int64("age_seconds", now-intent.CreatedAt),
			)
			s.Remove(intent.UserID)
			removed++
			continue
		}

		user, err := s.users.FindByID(intent.UserID)
		if err != nil {
			continue
		}
		if user.HasActivePackage() || user.PaymentMethod == "stars" {
			s.logger.Info("Removing superseded pending payment",
				zap.Int64("user_id", intent.UserID),
				zap.String("payment_id", intent.PaymentID),
				zap.String("payment_method", user.PaymentMethod),
			)
			s.Remove(intent.UserID)
			removed++
		}
	}
	return removed
}
