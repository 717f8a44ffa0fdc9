package payment

import "errors"

var (
	// ErrInvalidPackage rejects an unknown package key. User-visible.
	ErrInvalidPackage = errors.New("invalid package")

	// ErrAlreadyActive rejects a purchase while the user holds an
	// active package or a pending intent. User-visible, distinct from
	// ErrInvalidPackage so the bot can word the rejection.
	ErrAlreadyActive = errors.New("package already active or payment pending")

	// ErrAlreadyProcessed means the transaction hash is in the
	// processed ledger. Not a failure: the idempotency guard worked.
	ErrAlreadyProcessed = errors.New("transaction already processed")
)
