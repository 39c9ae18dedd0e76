package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fashionai/fashionai/internal/pkg/cache"
	"github.com/fashionai/fashionai/internal/pkg/referral"
	"github.com/fashionai/fashionai/internal/pkg/usercontext"
)

const referralStatsCacheTTL = 30 * time.Second

type referralOverview struct {
	ReferralCode string          `json:"referral_code"`
	Stats        *referral.Stats `json:"stats"`
	BonusCredits int             `json:"bonus_credits"`
	BonusExpiry  *time.Time      `json:"bonus_credits_expiry,omitempty"`
}

// HandleGetReferralOverview returns the user's own referral code, link stats
// and bonus credit summary. Responses are briefly cached; stats lag a few
// seconds at most.
func HandleGetReferralOverview(c *fiber.Ctx) error {
	ctx := usercontext.GetUserContext(c)
	if ctx.IsMaster {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "The demo account has no referral program"})
	}

	cacheKey := fmt.Sprintf("referral:overview:%d", ctx.UserID)
	if cached, err := cache.Get(cacheKey); err == nil {
		var overview referralOverview
		if json.Unmarshal([]byte(cached), &overview) == nil {
			return c.JSON(overview)
		}
	}

	user, err := deps.Repos.User.GetByID(ctx.UserID)
	if err != nil {
		log.Printf("referral: user lookup failed for %d: %v", ctx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load referral overview"})
	}

	stats, err := deps.Registry.StatsForReferrer(ctx.UserID)
	if err != nil {
		log.Printf("referral: stats failed for %d: %v", ctx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load referral stats"})
	}

	overview := referralOverview{
		ReferralCode: user.ReferralCode,
		Stats:        stats,
		BonusCredits: user.BonusCredits,
		BonusExpiry:  user.BonusCreditsExpiry,
	}

	if payload, err := json.Marshal(overview); err == nil {
		if err := cache.Set(cacheKey, payload, referralStatsCacheTTL); err != nil {
			log.Printf("referral: cache write failed: %v", err)
		}
	}

	return c.JSON(overview)
}
