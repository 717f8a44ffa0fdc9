package models

// ProcessedTransaction maps to the `processed_transactions` table.
// Append-only de-duplication ledger: presence of a tx hash means the
// payment was already credited. Stars purchases use a synthetic
// "stars:<uuid>" hash so both rails share the same guard.
type ProcessedTransaction struct {
	TxHash       string `gorm:"column:tx_hash;primaryKey;size:200" json:"tx_hash"`
	UserID       int64  `gorm:"column:user_id;index" json:"user_id"`
	PackageKey   string `gorm:"column:package;size:50" json:"package"`
	AmountNano   int64  `gorm:"column:amount_nano" json:"amount_nano"`
	PaymentID    string `gorm:"column:payment_id;size:16" json:"payment_id"`
	SourceWallet string `gorm:"column:source_wallet;size:100" json:"source_wallet"`
	ProcessedAt  int64  `gorm:"column:processed_at" json:"processed_at"`
}

func (ProcessedTransaction) TableName() string {
	return "processed_transactions"
}
