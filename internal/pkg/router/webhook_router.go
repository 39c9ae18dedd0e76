package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fashionai/fashionai/app/controllers"
	"github.com/fashionai/fashionai/internal/pkg/constants"
)

// WebhookRouter registers the unauthenticated payment processor endpoint.
// Authenticity comes from the HMAC signature, not from a bearer token, so
// this route stays outside the API group and its rate limiter.
type WebhookRouter struct {
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}

func (h WebhookRouter) InstallRouter(app *fiber.App) {
	app.Post(constants.PaymentWebhookRoute, controllers.HandlePaymentWebhook)
}
