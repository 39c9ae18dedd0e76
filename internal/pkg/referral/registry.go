// Package referral manages referral code issuance and the pending→completed
// lifecycle of referral links.
package referral

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
	"github.com/fashionai/fashionai/app/repository"
)

var (
	// ErrCodeGenerationExhausted is fatal: signup must not proceed with a
	// non-unique referral code.
	ErrCodeGenerationExhausted = errors.New("referral: could not generate a unique code")

	// ErrNotPending is returned when completing a referral that is missing
	// or already completed. Callers treat it as "already applied".
	ErrNotPending = errors.New("referral: referral not found or not pending")
)

const (
	CodeLength      = 8
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 10
)

// Registry issues referral codes and manages referral link records.
type Registry struct {
	users     repository.UserRepository
	referrals repository.ReferralRepository
}

// NewRegistry creates a referral registry over the given repositories.
func NewRegistry(users repository.UserRepository, referrals repository.ReferralRepository) *Registry {
	return &Registry{users: users, referrals: referrals}
}

// Stats summarizes a referrer's link records.
type Stats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

// randomCode draws CodeLength characters uniformly from [A-Z0-9].
// Rejection sampling avoids modulo bias; 252 is the largest multiple of 36
// below 256.
func randomCode() (string, error) {
	const maxRandomByte = 252

	code := make([]byte, CodeLength)
	buf := make([]byte, CodeLength*2)
	written := 0

	for written < CodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}

		for _, b := range buf {
			if b >= maxRandomByte {
				continue
			}
			code[written] = codeAlphabet[int(b)%len(codeAlphabet)]
			written++
			if written == CodeLength {
				break
			}
		}
	}

	return string(code), nil
}

// GenerateUniqueCode produces a referral code no existing user owns. It
// retries up to 10 times against the uniqueness check and fails with
// ErrCodeGenerationExhausted when every attempt collides.
func (r *Registry) GenerateUniqueCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		exists, err := r.users.ReferralCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}

// LinkReferral creates a pending referral from the owner of referrerCode to
// the referred user. An unknown code is a no-op, not an error: signup simply
// proceeds without a link. Self-referrals are ignored the same way.
func (r *Registry) LinkReferral(referrerCode string, referredUserID uint) (*models.Referral, error) {
	code := strings.ToUpper(strings.TrimSpace(referrerCode))
	if code == "" {
		return nil, nil
	}

	referrer, err := r.users.GetByReferralCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if referrer.ID == referredUserID {
		log.Printf("referral: user %d tried to refer themselves, ignoring", referredUserID)
		return nil, nil
	}

	link := &models.Referral{
		ReferrerID: referrer.ID,
		ReferredID: referredUserID,
		Status:     models.ReferralStatusPending,
	}
	if err := r.referrals.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

// FindPendingReferral returns the pending referral for a referred user, or
// nil when there is none.
func (r *Registry) FindPendingReferral(referredUserID uint) (*models.Referral, error) {
	link, err := r.referrals.FindPendingByReferredID(referredUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return link, nil
}

// CompleteReferral flips a pending referral to completed. The conditional
// update in the repository succeeds at most once; a second call returns
// ErrNotPending, which is the double-grant guard.
func (r *Registry) CompleteReferral(id uint) (*models.Referral, error) {
	done, err := r.referrals.CompletePending(id, time.Now())
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, ErrNotPending
	}
	return r.referrals.GetByID(id)
}

// StatsForReferrer counts a referrer's links by status.
func (r *Registry) StatsForReferrer(referrerID uint) (*Stats, error) {
	total, err := r.referrals.CountByReferrer(referrerID, "")
	if err != nil {
		return nil, err
	}
	pending, err := r.referrals.CountByReferrer(referrerID, models.ReferralStatusPending)
	if err != nil {
		return nil, err
	}
	completed, err := r.referrals.CountByReferrer(referrerID, models.ReferralStatusCompleted)
	if err != nil {
		return nil, err
	}
	return &Stats{Total: total, Pending: pending, Completed: completed}, nil
}
