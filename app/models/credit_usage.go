package models

import "time"

// CreditUsage is an append-only debit record. RemainingCredits snapshots the
// derived balance immediately after the debit was applied.
type CreditUsage struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	CreditsUsed      int       `gorm:"not null" json:"credits_used"`
	Action           string    `gorm:"type:varchar(100);not null" json:"action"`
	RemainingCredits int       `gorm:"not null" json:"remaining_credits"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (CreditUsage) TableName() string {
	return "credit_usage_history"
}
