package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/fashionai/fashionai/internal/pkg/payments"
)

// HandlePaymentWebhook receives payment processor deliveries. The signature
// is verified over the raw body before any processing; replays are absorbed
// by the event store.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	raw := c.Body()
	signature := c.Get(payments.SignatureHeader)

	err := deps.Processor.Handle(raw, signature)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"success": true})
	case errors.Is(err, payments.ErrInvalidSignature):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid signature"})
	case errors.Is(err, payments.ErrMalformedPayload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Malformed payload"})
	default:
		log.Printf("webhook: processing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Webhook processing failed"})
	}
}
