package payment

import (
	"sort"
	"strings"

	"cgspins/internal/models"
	"cgspins/internal/tonindexer"
)

// legacyMemoPrefix is the old client memo format ("CGSpins:<token>").
const legacyMemoPrefix = "CGSpins:"

// memoStrategy reports whether a transfer memo carries the payment-id.
// Strategies are tried in order; adding a format is a new entry, not a
// new branch.
type memoStrategy func(memo, paymentID string) bool

var memoStrategies = []memoStrategy{
	func(memo, paymentID string) bool { // bare token
		return strings.Contains(memo, paymentID)
	},
	func(memo, paymentID string) bool { // legacy prefixed form
		return strings.Contains(memo, legacyMemoPrefix+paymentID)
	},
}

func memoMatches(memo, paymentID string) bool {
	if paymentID == "" {
		return false
	}
	for _, strategy := range memoStrategies {
		if strategy(memo, paymentID) {
			return true
		}
	}
	return false
}

// MatchPair pairs a raw transaction with the intent it settles.
type MatchPair struct {
	Tx     tonindexer.RawTx
	Intent models.PendingPayment
}

// MatchTransactions pairs raw chain transactions against pending
// intents. Pure: inputs are never mutated.
//
// A transaction matches an intent iff the memo carries the intent's
// payment-id and the amount is within toleranceNano of the expected
// amount. Each transaction settles at most one intent and each intent
// is settled by at most one transaction per call; later candidates for
// the same intent are simply not matched.
func MatchTransactions(txs []tonindexer.RawTx, pendings map[int64]models.PendingPayment, toleranceNano int64, alreadyProcessed func(txHash string) bool) []MatchPair {
	if len(txs) == 0 || len(pendings) == 0 {
		return nil
	}

	// Deterministic intent order regardless of map iteration.
	intents := make([]models.PendingPayment, 0, len(pendings))
	for _, intent := range pendings {
		intents = append(intents, intent)
	}
	sort.Slice(intents, func(i, j int) bool { return intents[i].UserID < intents[j].UserID })

	matched := make(map[int64]bool, len(intents))
	var pairs []MatchPair

	for _, tx := range txs {
		if alreadyProcessed != nil && alreadyProcessed(tx.Hash) {
			continue
		}
		for _, intent := range intents {
			if matched[intent.UserID] {
				continue
			}
			if !memoMatches(tx.Comment, intent.PaymentID) {
				continue
			}
			if !amountWithinTolerance(tx.AmountNano, intent.AmountNano, toleranceNano) {
				continue
			}
			pairs = append(pairs, MatchPair{Tx: tx, Intent: intent})
			matched[intent.UserID] = true
			break // first matching intent only
		}
	}
	return pairs
}

// amountWithinTolerance absorbs indexer rounding artifacts of a few
// smallest units. It is not an underpayment allowance.
func amountWithinTolerance(got, want, tolerance int64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
