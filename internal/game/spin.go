package game

import (
	"math/rand"

	"cgspins/internal/config"
	"cgspins/internal/models"
)

// SpinOutcome describes what a single dice roll did to the account.
type SpinOutcome struct {
	IsWin            bool
	PointsAwarded    int
	HitRecorded      bool
	NFTEarned        bool
	NFTName          string
	PackageExhausted bool
	LevelChanged     bool
}

// Engine computes spin outcomes. No I/O: the caller persists the
// mutated account.
type Engine struct {
	winningValue int
	hitPoints    int
	rng          *rand.Rand
}

func NewEngine(cfg config.GameConfig, rng *rand.Rand) *Engine {
	return &Engine{
		winningValue: cfg.WinningDiceValue,
		hitPoints:    cfg.HitPoints,
		rng:          rng,
	}
}

// ApplySpin mutates the account for one dice roll and reports the
// outcome.
//
// A winning roll always earns the fixed point bonus. With an active
// package it also records exactly one hit; reaching the package's
// threshold triggers the NFT-earned transition, which consumes the
// package immediately and takes priority over the spins-exhausted
// reset. Every other roll (losing, or winning below the threshold)
// falls through to plain spin accounting: total up, available down,
// and an exhaustion reset when the last spin is used.
func (e *Engine) ApplySpin(diceValue int, u *models.UserAccount) SpinOutcome {
	outcome := SpinOutcome{IsWin: diceValue == e.winningValue}

	if outcome.IsWin {
		oldLevel := u.Level
		u.SpinPoints += e.hitPoints
		u.Level = CalculateLevel(u.SpinPoints)
		outcome.PointsAwarded = e.hitPoints
		outcome.LevelChanged = u.Level != oldLevel

		if u.HasActivePackage() {
			u.Hits++
			outcome.HitRecorded = true

			if pkg, ok := config.PackageByName(u.Package); ok && u.Hits >= pkg.HitsRequired {
				outcome.NFTEarned = true
				outcome.NFTName = e.drawNFT(u.Package)
				if outcome.NFTName != "" {
					u.AppendNFT(outcome.NFTName)
				}
				// One NFT opportunity per package: consume it even if
				// spins remain, and skip the exhaustion path entirely.
				e.resetPackage(u)
				return outcome
			}
		}
	}

	u.TotalSpins++
	if u.SpinsAvailable > 0 {
		u.SpinsAvailable--
	}
	if u.SpinsAvailable == 0 && u.HasActivePackage() {
		outcome.PackageExhausted = true
		e.resetPackage(u)
	}

	return outcome
}

// drawNFT picks one name uniformly from the package's pool.
func (e *Engine) drawNFT(packageName string) string {
	pool := config.NFTPools[packageName]
	if len(pool) == 0 {
		return ""
	}
	return pool[e.rng.Intn(len(pool))]
}

// resetPackage returns the account to the no-package state. Spin
// points (and therefore level) survive: they are never reset.
func (e *Engine) resetPackage(u *models.UserAccount) {
	u.Package = models.PackageNone
	u.PaymentMethod = ""
	u.SpinsAvailable = 0
	u.TotalSpins = 0
	u.Hits = 0
	u.Level = CalculateLevel(u.SpinPoints)
}
