package models

import "time"

const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
)

// Referral links a referrer to a referred user. It is created pending at
// signup and flips to completed exactly once, on the referred user's first
// qualifying purchase. The unique index on referred_id enforces that a user
// is referred at most once.
type Referral struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ReferrerID  uint       `gorm:"not null;index" json:"referrer_id"`
	ReferredID  uint       `gorm:"not null;uniqueIndex" json:"referred_id"`
	Status      string     `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt *time.Time `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
}

func (r *Referral) IsPending() bool {
	return r.Status == ReferralStatusPending
}
