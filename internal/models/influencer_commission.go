package models

// InfluencerCommission maps to the `influencer_commissions` table.
// One row per commissioned package purchase.
type InfluencerCommission struct {
	ID             uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InfluencerID   int64   `gorm:"column:influencer_id;index" json:"influencer_id"`
	ReferredUserID int64   `gorm:"column:referred_user_id" json:"referred_user_id"`
	PackageKey     string  `gorm:"column:package;size:50" json:"package"`
	AmountUSD      float64 `gorm:"column:amount_usd" json:"amount_usd"`
	Rate           float64 `gorm:"column:rate" json:"rate"`
	PaymentType    string  `gorm:"column:payment_type;size:20" json:"payment_type"`
	TxID           string  `gorm:"column:tx_id;size:200" json:"tx_id"`
	CreatedAt      int64   `gorm:"column:created_at" json:"created_at"`
}

func (InfluencerCommission) TableName() string {
	return "influencer_commissions"
}
