package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
)

// referralRepository implements the ReferralRepository interface
type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a new referral repository instance
func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

// Create persists a new referral link.
func (r *referralRepository) Create(referral *models.Referral) error {
	return r.db.Create(referral).Error
}

// GetByID retrieves a referral by its ID
func (r *referralRepository) GetByID(id uint) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.First(&referral, id).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

// FindPendingByReferredID returns the pending referral for a referred user.
func (r *referralRepository) FindPendingByReferredID(referredID uint) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.
		Where("referred_id = ? AND status = ?", referredID, models.ReferralStatusPending).
		First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

// CompletePending performs the conditional state flip. The WHERE clause on
// the current status makes the transition succeed at most once; a replay
// matches zero rows and reports false.
func (r *referralRepository) CompletePending(id uint, completedAt time.Time) (bool, error) {
	tx := r.db.Model(&models.Referral{}).
		Where("id = ? AND status = ?", id, models.ReferralStatusPending).
		Updates(map[string]interface{}{
			"status":       models.ReferralStatusCompleted,
			"completed_at": completedAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// CountByReferrer counts referrals by referrer, optionally filtered by status.
func (r *referralRepository) CountByReferrer(referrerID uint, status string) (int64, error) {
	var count int64
	q := r.db.Model(&models.Referral{}).Where("referrer_id = ?", referrerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}
