package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/fashionai/fashionai/app/controllers"
	"github.com/fashionai/fashionai/internal/pkg/cache"
	"github.com/fashionai/fashionai/internal/pkg/constants"
	"github.com/fashionai/fashionai/internal/pkg/env"
	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/middleware"
)

type ApiRouter struct {
	idp identity.Provider
}

func NewApiRouter(idp identity.Provider) *ApiRouter {
	return &ApiRouter{idp: idp}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    limiterStorage(),
	}))

	v1 := api.Group(constants.APIV1Route)

	// Public auth endpoints
	v1.Post(constants.RegisterRoute, controllers.HandleRegister)
	v1.Post(constants.LoginRoute, controllers.HandleLogin)

	// Everything below requires a bearer token
	authed := v1.Group("/", middleware.AuthRequired(h.idp))

	authed.Get(constants.CreditsRoute, controllers.HandleGetCreditSummary)
	authed.Post(constants.CreditsSpendRoute, controllers.HandleSpendCredits)
	authed.Get(constants.CreditsHistoryRoute, controllers.HandleGetUsageHistory)

	authed.Get(constants.ReferralsRoute, controllers.HandleGetReferralOverview)

	authed.Post(constants.GenerateRoute, controllers.HandleGenerateTryOn)
	authed.Get(constants.ImagesRoute, controllers.HandleListGenerations)

	authed.Get(constants.ProfileRoute, controllers.HandleGetProfile)
	authed.Post(constants.ProfilePhotoRoute, controllers.HandleUploadProfilePhoto)
}

// limiterStorage backs the rate limiter with Redis so limits hold across
// instances. Uses database 1; the cache client owns database 0.
func limiterStorage() *redis.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")

	if client := cache.GetClient(); client != nil {
		if h, p, err := net.SplitHostPort(client.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := client.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}
