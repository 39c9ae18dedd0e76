package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
	"github.com/fashionai/fashionai/app/repository"
	"github.com/fashionai/fashionai/internal/pkg/commission"
	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/ledger"
	"github.com/fashionai/fashionai/internal/pkg/payments"
)

const webhookTestSecret = "controller-test-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Credit{},
		&models.CreditUsage{},
		&models.Referral{},
		&models.PaymentWebhookEvent{},
	))
	return db
}

// setupWebhookApp wires a minimal app around the webhook handler.
func setupWebhookApp(t *testing.T) (*fiber.App, *gorm.DB, *ledger.Service) {
	t.Helper()
	db := newTestDB(t)
	repos := repository.NewRepositories(db)
	idp := identity.NewDBProvider(repos.User)
	ledgerSvc := ledger.NewService(repos.Credit)
	engine := commission.NewEngine(db, idp)
	processor := payments.NewProcessor(repos.WebhookEvent, repos.User, ledgerSvc, engine, idp, webhookTestSecret)

	Setup(Deps{
		Repos:     repos,
		Ledger:    ledgerSvc,
		Engine:    engine,
		Processor: processor,
		Identity:  idp,
	})

	app := fiber.New()
	app.Post("/webhooks/payment", HandlePaymentWebhook)
	return app, db, ledgerSvc
}

func signedWebhookRequest(body []byte, secret string) *http.Request {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(payments.SignatureHeader, hex.EncodeToString(mac.Sum(nil)))
	return req
}

func TestHandlePaymentWebhook_GrantsPurchaseCredits(t *testing.T) {
	app, db, ledgerSvc := setupWebhookApp(t)

	user := &models.User{
		Name: "Buyer", Email: "buyer@example.com", Password: "irrelevant",
		Role: models.ROLE_USER, Status: models.STATUS_ACTIVE,
		ReferralCode: "AAAA1111", PlanType: "basic",
	}
	require.NoError(t, db.Create(user).Error)

	body := []byte(`{"event":"purchase.completed","data":{"transactionId":"txn-1","customerEmail":"buyer@example.com","planType":"fashion"}}`)
	resp, err := app.Test(signedWebhookRequest(body, webhookTestSecret), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, 100, ledgerSvc.AvailableBalance(user.ID))
}

func TestHandlePaymentWebhook_RejectsBadSignature(t *testing.T) {
	app, db, _ := setupWebhookApp(t)

	body := []byte(`{"event":"purchase.completed","data":{"transactionId":"txn-1"}}`)
	resp, err := app.Test(signedWebhookRequest(body, "wrong-secret"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.PaymentWebhookEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandlePaymentWebhook_RejectsMalformedBody(t *testing.T) {
	app, _, _ := setupWebhookApp(t)

	body := []byte(`{not json`)
	resp, err := app.Test(signedWebhookRequest(body, webhookTestSecret), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandlePaymentWebhook_ReplayReturnsOK(t *testing.T) {
	app, db, ledgerSvc := setupWebhookApp(t)

	user := &models.User{
		Name: "Buyer", Email: "buyer@example.com", Password: "irrelevant",
		Role: models.ROLE_USER, Status: models.STATUS_ACTIVE,
		ReferralCode: "AAAA1111", PlanType: "basic",
	}
	require.NoError(t, db.Create(user).Error)

	body := []byte(`{"event":"purchase.completed","data":{"transactionId":"txn-1","customerEmail":"buyer@example.com","planType":"super"}}`)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(signedWebhookRequest(body, webhookTestSecret), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 250, ledgerSvc.AvailableBalance(user.ID))
}
