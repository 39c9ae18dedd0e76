package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
)

// creditRepository implements the CreditRepository interface
type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new credit repository instance
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

// InsertCredit persists one immutable credit grant.
func (r *creditRepository) InsertCredit(userID uint, amount int, source string, expiresAt time.Time) (*models.Credit, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	if source != models.CreditSourcePurchase && source != models.CreditSourceReferral {
		return nil, fmt.Errorf("unknown credit source %q", source)
	}

	credit := &models.Credit{
		UserID:    userID,
		Amount:    amount,
		Source:    source,
		ExpiresAt: expiresAt,
	}
	if err := r.db.Create(credit).Error; err != nil {
		return nil, err
	}
	return credit, nil
}

// ListGrants returns all grants for a user, expired ones included, ordered
// soonest expiry first with insertion order as the tiebreak.
func (r *creditRepository) ListGrants(userID uint) ([]models.Credit, error) {
	var credits []models.Credit
	err := r.db.
		Where("user_id = ?", userID).
		Order("expires_at ASC, id ASC").
		Find(&credits).Error
	return credits, err
}

// InsertUsage appends one debit record with its balance snapshot.
func (r *creditRepository) InsertUsage(userID uint, creditsUsed int, action string, remainingCredits int) (*models.CreditUsage, error) {
	if creditsUsed <= 0 {
		return nil, fmt.Errorf("credits used must be positive, got %d", creditsUsed)
	}

	usage := &models.CreditUsage{
		UserID:           userID,
		CreditsUsed:      creditsUsed,
		Action:           action,
		RemainingCredits: remainingCredits,
	}
	if err := r.db.Create(usage).Error; err != nil {
		return nil, err
	}
	return usage, nil
}

// SumUsage aggregates the total credits ever debited for a user in SQL, so
// balance reads do not scale with the length of the usage history.
func (r *creditRepository) SumUsage(userID uint) (int, error) {
	var total int64
	err := r.db.Model(&models.CreditUsage{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(credits_used), 0)").
		Scan(&total).Error
	return int(total), err
}

// ListUsageHistory returns usage records newest first.
func (r *creditRepository) ListUsageHistory(userID uint, limit int) ([]models.CreditUsage, error) {
	var history []models.CreditUsage
	q := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&history).Error
	return history, err
}

// ListExpiringSoon returns grants expiring within the horizon, soonest first.
func (r *creditRepository) ListExpiringSoon(userID uint, now time.Time, horizon time.Duration) ([]models.Credit, error) {
	var credits []models.Credit
	err := r.db.
		Where("user_id = ? AND expires_at > ? AND expires_at < ?", userID, now, now.Add(horizon)).
		Order("expires_at ASC").
		Find(&credits).Error
	return credits, err
}
