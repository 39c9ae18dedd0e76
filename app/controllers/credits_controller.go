package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/fashionai/fashionai/internal/pkg/ledger"
	"github.com/fashionai/fashionai/internal/pkg/usercontext"
)

type spendRequest struct {
	Amount int    `json:"amount"`
	Action string `json:"action"`
}

// HandleGetCreditSummary returns total, per-source balances and expiring-soon
// grants for the authenticated user.
func HandleGetCreditSummary(c *fiber.Ctx) error {
	ctx := usercontext.GetUserContext(c)
	if ctx.IsMaster {
		// The master identity has no ledger; report the demo allowance.
		return c.JSON(fiber.Map{"total": 999999, "purchase": 999999, "referral": 0, "expiring_soon": []any{}})
	}

	summary, err := deps.Ledger.Summary(ctx.UserID)
	if err != nil {
		log.Printf("credits: summary failed for user %d: %v", ctx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load credit summary"})
	}
	return c.JSON(summary)
}

// HandleSpendCredits debits the authenticated user's balance.
func HandleSpendCredits(c *fiber.Ctx) error {
	ctx := usercontext.GetUserContext(c)

	var req spendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if req.Action == "" {
		req.Action = "manual_spend"
	}

	if ctx.IsMaster {
		return c.JSON(fiber.Map{"ok": true, "remaining": 999999})
	}

	ok, err := deps.Ledger.UseCredits(ctx.UserID, req.Amount, req.Action)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Amount must be positive"})
		}
		log.Printf("credits: spend failed for user %d: %v", ctx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not spend credits"})
	}
	if !ok {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "insufficient_credits", "message": "Not enough credits"})
	}

	return c.JSON(fiber.Map{"ok": true, "remaining": deps.Ledger.AvailableBalance(ctx.UserID)})
}

// HandleGetUsageHistory returns the newest usage records for the user.
func HandleGetUsageHistory(c *fiber.Ctx) error {
	ctx := usercontext.GetUserContext(c)
	if ctx.IsMaster {
		return c.JSON(fiber.Map{"history": []any{}})
	}

	limit := c.QueryInt("limit", 20)
	history, err := deps.Ledger.UsageHistory(ctx.UserID, limit)
	if err != nil {
		log.Printf("credits: history failed for user %d: %v", ctx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load usage history"})
	}
	return c.JSON(fiber.Map{"history": history})
}
