package main

import (
	"fmt"
	"log"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fashionai/fashionai/app/controllers"
	"github.com/fashionai/fashionai/app/repository"
	"github.com/fashionai/fashionai/internal/pkg/cache"
	"github.com/fashionai/fashionai/internal/pkg/commission"
	"github.com/fashionai/fashionai/internal/pkg/constants"
	"github.com/fashionai/fashionai/internal/pkg/database"
	"github.com/fashionai/fashionai/internal/pkg/env"
	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/ledger"
	"github.com/fashionai/fashionai/internal/pkg/payments"
	"github.com/fashionai/fashionai/internal/pkg/referral"
	"github.com/fashionai/fashionai/internal/pkg/router"
	"github.com/fashionai/fashionai/internal/pkg/storage"
	"github.com/fashionai/fashionai/internal/pkg/tryon"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	// Identity resolution: the master demo account is checked before the
	// user table so its credentials never need a database row.
	master := identity.NewMasterProvider(
		env.GetEnv("MASTER_EMAIL", ""),
		env.GetEnv("MASTER_PASSWORD", ""),
	)
	idp := identity.Chain{master, identity.NewDBProvider(repos.User)}

	ledgerSvc := ledger.NewService(repos.Credit)
	registry := referral.NewRegistry(repos.User, repos.Referral)
	engine := commission.NewEngine(db, idp)
	processor := payments.NewProcessor(
		repos.WebhookEvent,
		repos.User,
		ledgerSvc,
		engine,
		idp,
		env.GetEnv("WEBHOOK_SECRET", ""),
	)

	storeCfg, err := storage.LoadConfig()
	if err != nil {
		log.Fatalf("storage config: %v", err)
	}
	store, err := storage.NewClient(storeCfg)
	if err != nil {
		log.Fatalf("storage client: %v", err)
	}
	generator := tryon.NewService(ledgerSvc, store, storeCfg, tryon.NewHTTPInference(), repos.Generation, repos.User)

	controllers.Setup(controllers.Deps{
		Repos:     repos,
		Ledger:    ledgerSvc,
		Registry:  registry,
		Engine:    engine,
		Processor: processor,
		Generator: generator,
		Identity:  idp,
		Master:    master,
	})

	// init fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // garment and profile photo uploads
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// prometheus metrics
	app.Get(constants.MetricsRoute, adaptor.HTTPHandler(promhttp.Handler()))

	// ROUTER
	router.InstallRouter(app, idp)

	return app
}
