package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByReferralCode(code string) (*models.User, error)
	ReferralCodeExists(code string) (bool, error)
	Update(user *models.User) error
	AddBonusCredits(userID uint, amount int, expiry time.Time) error
}

// CreditRepository is the durable store for credit grants and usage records.
// It carries no business logic; balance derivation lives in the ledger.
type CreditRepository interface {
	InsertCredit(userID uint, amount int, source string, expiresAt time.Time) (*models.Credit, error)
	// ListGrants returns every grant, expired ones included, in drawdown
	// order (soonest expiry first). The ledger needs the expired rows to
	// retire the usage they funded.
	ListGrants(userID uint) ([]models.Credit, error)
	InsertUsage(userID uint, creditsUsed int, action string, remainingCredits int) (*models.CreditUsage, error)
	SumUsage(userID uint) (int, error)
	ListUsageHistory(userID uint, limit int) ([]models.CreditUsage, error)
	ListExpiringSoon(userID uint, now time.Time, horizon time.Duration) ([]models.Credit, error)
}

// ReferralRepository manages referral link records.
type ReferralRepository interface {
	Create(referral *models.Referral) error
	GetByID(id uint) (*models.Referral, error)
	FindPendingByReferredID(referredID uint) (*models.Referral, error)
	// CompletePending flips a pending referral to completed. It reports false
	// when the referral was not pending (already completed or missing), which
	// callers use as the idempotency gate.
	CompletePending(id uint, completedAt time.Time) (bool, error)
	CountByReferrer(referrerID uint, status string) (int64, error)
}

// WebhookEventRepository persists payment webhook deliveries idempotently.
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
}

// GenerationRepository stores completed try-on results.
type GenerationRepository interface {
	Create(image *models.GeneratedImage) error
	ListByUser(userID uint, offset, limit int) ([]models.GeneratedImage, error)
	CountByUser(userID uint) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Credit       CreditRepository
	Referral     ReferralRepository
	WebhookEvent WebhookEventRepository
	Generation   GenerationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Credit:       NewCreditRepository(db),
		Referral:     NewReferralRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
		Generation:   NewGenerationRepository(db),
	}
}
