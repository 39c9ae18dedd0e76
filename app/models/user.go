package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email              string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password           string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role               string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status             string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	ReferralCode       string         `gorm:"uniqueIndex;type:varchar(8)" json:"referral_code" validate:"required,len=8"`
	ReferredBy         string         `gorm:"type:varchar(8);default:null" json:"referred_by,omitempty"`
	PlanType           string         `gorm:"type:varchar(20);default:'basic'" json:"plan_type" validate:"oneof=basic fashion super master"`
	BonusCredits       int            `gorm:"not null;default:0" json:"bonus_credits"`
	BonusCreditsExpiry *time.Time     `gorm:"type:timestamp;default:null" json:"bonus_credits_expiry,omitempty"`
	ProfilePhotoURL    string         `gorm:"type:varchar(512);default:null" json:"profile_photo_url,omitempty"`
	LastLoginAt        *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// CreateUser builds an unsaved user. The referral code must already be
// issued (and uniqueness-checked) by the referral registry. Validation runs
// against the raw password before it is replaced by the hash.
func CreateUser(name, email, password, referralCode string) (*User, error) {
	u := &User{
		Name:         name,
		Email:        email,
		Password:     password,
		Role:         ROLE_USER,
		Status:       STATUS_ACTIVE,
		ReferralCode: referralCode,
		PlanType:     "basic",
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}
