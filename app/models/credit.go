package models

import "time"

const (
	CreditSourcePurchase = "purchase"
	CreditSourceReferral = "referral"
)

// Credit is a single immutable grant. Consumption is tracked separately in
// credit_usage_history; the balance is always a derived sum, never a stored
// counter on the grant.
type Credit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_credits_user_expiry,priority:1" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Source    string    `gorm:"type:varchar(16);not null" json:"source"`
	ExpiresAt time.Time `gorm:"not null;index:idx_credits_user_expiry,priority:2" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsAvailable reports whether the grant can still be spent at the given time.
func (c *Credit) IsAvailable(now time.Time) bool {
	return c.ExpiresAt.After(now)
}
