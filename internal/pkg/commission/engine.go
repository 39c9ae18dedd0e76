// Package commission reacts to completed purchases: when the payer was
// referred, it grants a one-time bonus-credit commission to the referrer.
package commission

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
	"github.com/fashionai/fashionai/app/repository"
	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/metrics"
	"github.com/fashionai/fashionai/internal/pkg/plans"
)

// Result reports whether a commission was granted and for how much.
type Result struct {
	Granted bool `json:"granted"`
	Amount  int  `json:"amount"`
}

// Engine grants referral commissions. It owns the transaction that couples
// the referral state flip with the credit grant, so a webhook replay or a
// crash between the two can never double-grant.
type Engine struct {
	db       *gorm.DB
	identity identity.Provider
}

// NewEngine creates a commission engine over a DB handle and an identity provider.
func NewEngine(db *gorm.DB, idp identity.Provider) *Engine {
	return &Engine{db: db, identity: idp}
}

// ProcessPurchase grants the referrer's commission for the referred user's
// purchase, idempotently. A missing referral or referrer is a no-op, never
// an error: commission bookkeeping must not fail the purchase flow.
func (e *Engine) ProcessPurchase(referredUserID uint, planType string) (Result, error) {
	referrals := repository.NewReferralRepository(e.db)
	users := repository.NewUserRepository(e.db)

	link, err := referrals.FindPendingByReferredID(referredUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, nil
		}
		return Result{}, err
	}

	referrer, err := users.GetByID(link.ReferrerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Dangling link: the referrer is gone. The purchase still stands.
			log.Printf("commission: referrer %d for referral %d not found, skipping grant", link.ReferrerID, link.ID)
			return Result{}, nil
		}
		return Result{}, err
	}

	amount := plans.CommissionFor(plans.Normalize(planType))
	now := time.Now()
	expiry := plans.CommissionExpiry(now)

	granted := false
	err = e.db.Transaction(func(tx *gorm.DB) error {
		// The conditional completion is the exclusive gate: the grant only
		// happens when this transition succeeds, and it succeeds at most once.
		done, err := repository.NewReferralRepository(tx).CompletePending(link.ID, now)
		if err != nil {
			return err
		}
		if !done {
			return nil
		}

		if _, err := repository.NewCreditRepository(tx).InsertCredit(
			referrer.ID, amount, models.CreditSourceReferral, expiry,
		); err != nil {
			return err
		}
		if err := repository.NewUserRepository(tx).AddBonusCredits(referrer.ID, amount, expiry); err != nil {
			return err
		}
		granted = true
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if !granted {
		return Result{}, nil
	}

	metrics.CommissionsGranted.Inc()
	metrics.CreditsGranted.WithLabelValues(models.CreditSourceReferral).Add(float64(amount))
	log.Printf("commission: granted %d credits to referrer %d for referral %d (plan %s)", amount, referrer.ID, link.ID, planType)
	return Result{Granted: true, Amount: amount}, nil
}

// SettlePurchase resolves the paying customer's email to a user and runs
// ProcessPurchase. Unknown emails and the master identity are no-ops.
func (e *Engine) SettlePurchase(email, planType string) (Result, error) {
	ident, err := e.identity.ResolveByEmail(email)
	if err != nil {
		if errors.Is(err, identity.ErrUnknownIdentity) {
			log.Printf("commission: no user for purchase email %q, skipping", email)
			return Result{}, nil
		}
		return Result{}, err
	}
	if ident.Master {
		return Result{}, nil
	}
	return e.ProcessPurchase(ident.UserID, planType)
}
