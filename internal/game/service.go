package game

import (
	"errors"

	"go.uber.org/zap"

	"cgspins/internal/models"
	"cgspins/internal/repository"
)

// ErrOutOfSpins rejects a spin from a user with no spins available.
// User-visible rejection, not a failure.
var ErrOutOfSpins = errors.New("out of spins")

// SpinService applies dice-roll events to user accounts. The
// load-mutate-save sequence runs to completion per event; there is no
// suspension point between loading and saving the same user's record.
type SpinService struct {
	users        *repository.UserRepository
	engine       *Engine
	welcomeBonus int
	logger       *zap.Logger
}

func NewSpinService(users *repository.UserRepository, engine *Engine, welcomeBonus int, logger *zap.Logger) *SpinService {
	return &SpinService{
		users:        users,
		engine:       engine,
		welcomeBonus: welcomeBonus,
		logger:       logger,
	}
}

// SpinResult is the durably-applied state after one roll.
type SpinResult struct {
	Outcome SpinOutcome
	Account *models.UserAccount
}

// Spin processes one dice roll for the user. The state transition is
// persisted before returning, so downstream notification failures
// cannot lose it.
func (s *SpinService) Spin(userID int64, diceValue int) (*SpinResult, error) {
	user, err := s.users.FindOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if !user.HasActivePackage() || user.SpinsAvailable <= 0 {
		return nil, ErrOutOfSpins
	}

	outcome := s.engine.ApplySpin(diceValue, user)
	if err := s.users.Save(user); err != nil {
		return nil, err
	}

	if outcome.NFTEarned {
		s.logger.Info("NFT earned",
			zap.Int64("user_id", userID),
			zap.String("nft", outcome.NFTName),
		)
	}

	return &SpinResult{Outcome: outcome, Account: user}, nil
}

// RegisterReferral links a new user to their referrer and grants the
// welcome bonus. No-op for self-referrals and already-linked users.
func (s *SpinService) RegisterReferral(userID, referrerID int64) error {
	if referrerID == 0 || referrerID == userID {
		return nil
	}

	user, err := s.users.FindOrCreate(userID)
	if err != nil {
		return err
	}
	if user.ReferredBy != 0 {
		return nil
	}

	if _, err := s.users.FindOrCreate(referrerID); err != nil {
		return err
	}

	user.ReferredBy = referrerID
	user.SpinPoints += s.welcomeBonus
	user.Level = CalculateLevel(user.SpinPoints)
	if err := s.users.Save(user); err != nil {
		return err
	}

	if err := s.users.IncrementReferrals(referrerID); err != nil {
		s.logger.Warn("Failed to bump referral counter",
			zap.Int64("referrer_id", referrerID),
			zap.Error(err),
		)
	}
	return nil
}
