package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fashionai/fashionai/internal/pkg/identity"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter registers all route groups. The webhook router goes first so
// payment deliveries never pass through the authenticated API middleware.
func InstallRouter(app *fiber.App, idp identity.Provider) {
	setup(app, NewWebhookRouter(), NewApiRouter(idp))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
