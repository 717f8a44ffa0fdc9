package models

// PendingPayment maps to the `pending_ton_payments` table.
// At most one intent exists per user; the primary key enforces it.
type PendingPayment struct {
	UserID     int64  `gorm:"column:user_id;primaryKey" json:"user_id"`
	PackageKey string `gorm:"column:package;size:50" json:"package"`
	PaymentID  string `gorm:"column:payment_id;size:16;index" json:"payment_id"`
	AmountNano int64  `gorm:"column:amount_nano" json:"amount_nano"`
	CreatedAt  int64  `gorm:"column:created_at" json:"created_at"`
}

func (PendingPayment) TableName() string {
	return "pending_ton_payments"
}
