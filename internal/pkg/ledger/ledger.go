// Package ledger derives credit balances from the append-only grant and
// usage tables. Balances are never stored as mutable counters; every read
// replays recorded usage against the grants in expiry order, so a grant that
// expires takes the usage it funded with it. Post-debit snapshots are kept
// on the usage rows themselves.
package ledger

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fashionai/fashionai/app/models"
	"github.com/fashionai/fashionai/app/repository"
	"github.com/fashionai/fashionai/internal/pkg/metrics"
	"github.com/fashionai/fashionai/internal/pkg/plans"
)

var ErrInvalidAmount = errors.New("ledger: amount must be positive")

const lockStripes = 64

// Service is the single accounting interface over the credit store. All
// balance reads and debits go through here so call sites never recompute
// the derived sum inconsistently.
type Service struct {
	credits repository.CreditRepository

	// Debits for the same user serialize on a striped mutex; the
	// check-then-write in UseCredits is only correct under this lock.
	// A multi-process deployment must additionally gate the admission
	// check in the database.
	locks [lockStripes]sync.Mutex
}

// NewService creates a ledger service over a credit repository.
func NewService(credits repository.CreditRepository) *Service {
	return &Service{credits: credits}
}

// Breakdown partitions an available balance by grant source.
type Breakdown struct {
	Purchase int `json:"purchase"`
	Referral int `json:"referral"`
}

// Summary is the aggregate view exposed to the credits API.
type Summary struct {
	Total        int             `json:"total"`
	Purchase     int             `json:"purchase"`
	Referral     int             `json:"referral"`
	ExpiringSoon []models.Credit `json:"expiring_soon"`
}

func (s *Service) userLock(userID uint) *sync.Mutex {
	return &s.locks[userID%lockStripes]
}

// availableAt replays total usage against the grants in drawdown order
// (soonest expiry first) and returns what the non-expired grants still hold.
// Drawing from the earliest-expiring grant first means an expired grant
// retires the consumption it funded instead of leaving it to be subtracted
// from fresher grants.
func (s *Service) availableAt(userID uint, now time.Time) (int, Breakdown, error) {
	grants, err := s.credits.ListGrants(userID)
	if err != nil {
		return 0, Breakdown{}, err
	}
	used, err := s.credits.SumUsage(userID)
	if err != nil {
		return 0, Breakdown{}, err
	}

	var total int
	var by Breakdown
	for _, g := range grants {
		draw := g.Amount
		if draw > used {
			draw = used
		}
		used -= draw
		if !g.ExpiresAt.After(now) {
			continue
		}
		left := g.Amount - draw
		total += left
		switch g.Source {
		case models.CreditSourcePurchase:
			by.Purchase += left
		case models.CreditSourceReferral:
			by.Referral += left
		}
	}
	return total, by, nil
}

// AvailableBalance returns the spendable balance for a user. Store errors
// are logged and reported as zero so a storage hiccup can never be used to
// bypass credit checks.
func (s *Service) AvailableBalance(userID uint) int {
	total, _, err := s.availableAt(userID, time.Now())
	if err != nil {
		log.Printf("ledger: balance lookup failed for user %d: %v", userID, err)
		return 0
	}
	return total
}

// BalanceBySource returns the available balance partitioned by grant source.
func (s *Service) BalanceBySource(userID uint) Breakdown {
	_, by, err := s.availableAt(userID, time.Now())
	if err != nil {
		log.Printf("ledger: balance breakdown failed for user %d: %v", userID, err)
		return Breakdown{}
	}
	return by
}

// UseCredits debits the balance and appends a usage record carrying the
// post-debit snapshot. It returns false without writing anything when the
// balance does not cover the amount.
func (s *Service) UseCredits(userID uint, amount int, action string) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	available, _, err := s.availableAt(userID, time.Now())
	if err != nil {
		log.Printf("ledger: debit admission check failed for user %d: %v", userID, err)
		return false, err
	}
	if available < amount {
		return false, nil
	}

	remaining := available - amount
	if _, err := s.credits.InsertUsage(userID, amount, action, remaining); err != nil {
		return false, err
	}
	metrics.CreditsSpent.Add(float64(amount))
	return true, nil
}

// GrantCredits records a new immutable credit grant.
func (s *Service) GrantCredits(userID uint, amount int, source string, expiresAt time.Time) (*models.Credit, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.credits.InsertCredit(userID, amount, source, expiresAt)
}

// Summary returns totals, per-source balances and grants expiring within the
// configured horizon.
func (s *Service) Summary(userID uint) (*Summary, error) {
	now := time.Now()
	total, by, err := s.availableAt(userID, now)
	if err != nil {
		return nil, err
	}

	expiring, err := s.credits.ListExpiringSoon(userID, now, plans.ExpiringSoonHorizon)
	if err != nil {
		log.Printf("ledger: expiring-soon lookup failed for user %d: %v", userID, err)
		expiring = nil
	}
	if expiring == nil {
		expiring = []models.Credit{}
	}

	return &Summary{
		Total:        total,
		Purchase:     by.Purchase,
		Referral:     by.Referral,
		ExpiringSoon: expiring,
	}, nil
}

// UsageHistory returns the newest usage records for a user.
func (s *Service) UsageHistory(userID uint, limit int) ([]models.CreditUsage, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.credits.ListUsageHistory(userID, limit)
}
