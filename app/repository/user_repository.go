package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByReferralCode retrieves the user owning a referral code.
func (r *userRepository) GetByReferralCode(code string) (*models.User, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.Where("referral_code = ?", trimmed).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ReferralCodeExists reports whether any user already owns the given code.
func (r *userRepository) ReferralCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("referral_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// AddBonusCredits increments the bonus credit summary columns atomically in
// SQL so concurrent commissions for the same referrer cannot lose updates.
func (r *userRepository) AddBonusCredits(userID uint, amount int, expiry time.Time) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"bonus_credits":        gorm.Expr("bonus_credits + ?", amount),
			"bonus_credits_expiry": expiry,
		}).Error
}
