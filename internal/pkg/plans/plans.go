package plans

import (
	"strings"
	"time"
)

type Plan string

const (
	PlanBasic   Plan = "basic"
	PlanFashion Plan = "fashion"
	PlanSuper   Plan = "super"
	PlanMaster  Plan = "master"
)

// Credit and commission tables. These were scattered literals in earlier
// revisions; they live here so every call site sees the same values.
var monthlyCredits = map[Plan]int{
	PlanBasic:   30,
	PlanFashion: 100,
	PlanSuper:   250,
	PlanMaster:  999999,
}

var referralCommission = map[Plan]int{
	PlanBasic:   10,
	PlanFashion: 25,
	PlanSuper:   50,
}

// CommissionFallback is granted for plan types missing from the table.
// Failing safe to the lowest tier beats granting zero or rejecting the purchase.
const CommissionFallback = 10

// ExpiringSoonHorizon is the window used for "credits expiring soon" listings.
const ExpiringSoonHorizon = 7 * 24 * time.Hour

func Normalize(plan string) Plan {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case string(PlanFashion):
		return PlanFashion
	case string(PlanSuper):
		return PlanSuper
	case string(PlanMaster):
		return PlanMaster
	default:
		return PlanBasic
	}
}

func Rank(plan Plan) int {
	switch plan {
	case PlanMaster:
		return 3
	case PlanSuper:
		return 2
	case PlanFashion:
		return 1
	default:
		return 0
	}
}

// CreditsFor returns the purchase credit grant for a plan.
func CreditsFor(plan Plan) int {
	if c, ok := monthlyCredits[Normalize(string(plan))]; ok {
		return c
	}
	return monthlyCredits[PlanBasic]
}

// CommissionFor returns the referral commission for the referred user's plan.
func CommissionFor(plan Plan) int {
	if c, ok := referralCommission[Normalize(string(plan))]; ok {
		return c
	}
	return CommissionFallback
}

// PurchaseExpiry is when purchase-sourced credits granted at now expire.
func PurchaseExpiry(now time.Time) time.Time {
	return now.AddDate(0, 0, 365)
}

// CommissionExpiry is when referral-sourced commission credits granted at now expire.
func CommissionExpiry(now time.Time) time.Time {
	return now.AddDate(0, 6, 0)
}
