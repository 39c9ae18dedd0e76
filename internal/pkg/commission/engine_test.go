package commission

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
	"github.com/fashionai/fashionai/app/repository"
	"github.com/fashionai/fashionai/internal/pkg/identity"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Referral{}, &models.Credit{}, &models.CreditUsage{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, code string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		Password:     "irrelevant",
		Role:         models.ROLE_USER,
		Status:       models.STATUS_ACTIVE,
		ReferralCode: code,
		PlanType:     "basic",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPendingReferral(t *testing.T, db *gorm.DB, referrerID, referredID uint) *models.Referral {
	t.Helper()
	link := &models.Referral{
		ReferrerID: referrerID,
		ReferredID: referredID,
		Status:     models.ReferralStatusPending,
	}
	require.NoError(t, db.Create(link).Error)
	return link
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	idp := identity.NewDBProvider(repository.NewUserRepository(db))
	return NewEngine(db, idp), db
}

func TestProcessPurchaseGrantsCommission(t *testing.T) {
	engine, db := newTestEngine(t)
	referrer := createUser(t, db, "referrer@example.com", "AAAA1111")
	referred := createUser(t, db, "referred@example.com", "BBBB2222")
	link := createPendingReferral(t, db, referrer.ID, referred.ID)

	result, err := engine.ProcessPurchase(referred.ID, "fashion")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, 25, result.Amount)

	// The referral flipped and the credit grant landed in the same transaction.
	var stored models.Referral
	require.NoError(t, db.First(&stored, link.ID).Error)
	assert.Equal(t, models.ReferralStatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	var credit models.Credit
	require.NoError(t, db.Where("user_id = ?", referrer.ID).First(&credit).Error)
	assert.Equal(t, 25, credit.Amount)
	assert.Equal(t, models.CreditSourceReferral, credit.Source)
	assert.True(t, credit.ExpiresAt.After(time.Now().AddDate(0, 5, 0)))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, referrer.ID).Error)
	assert.Equal(t, 25, reloaded.BonusCredits)
	require.NotNil(t, reloaded.BonusCreditsExpiry)
}

func TestProcessPurchaseIsIdempotent(t *testing.T) {
	engine, db := newTestEngine(t)
	referrer := createUser(t, db, "referrer@example.com", "AAAA1111")
	referred := createUser(t, db, "referred@example.com", "BBBB2222")
	createPendingReferral(t, db, referrer.ID, referred.ID)

	first, err := engine.ProcessPurchase(referred.ID, "super")
	require.NoError(t, err)
	assert.True(t, first.Granted)
	assert.Equal(t, 50, first.Amount)

	second, err := engine.ProcessPurchase(referred.ID, "super")
	require.NoError(t, err)
	assert.False(t, second.Granted)
	assert.Zero(t, second.Amount)

	var count int64
	require.NoError(t, db.Model(&models.Credit{}).Where("user_id = ?", referrer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, referrer.ID).Error)
	assert.Equal(t, 50, reloaded.BonusCredits)
}

func TestProcessPurchaseWithoutReferralIsNoOp(t *testing.T) {
	engine, db := newTestEngine(t)
	buyer := createUser(t, db, "buyer@example.com", "AAAA1111")

	result, err := engine.ProcessPurchase(buyer.ID, "fashion")
	require.NoError(t, err)
	assert.False(t, result.Granted)
}

func TestProcessPurchaseDanglingReferrerIsNoOp(t *testing.T) {
	engine, db := newTestEngine(t)
	referred := createUser(t, db, "referred@example.com", "BBBB2222")
	link := createPendingReferral(t, db, 98765, referred.ID)

	result, err := engine.ProcessPurchase(referred.ID, "fashion")
	require.NoError(t, err)
	assert.False(t, result.Granted)

	// The link stays pending; nothing was granted to anyone.
	var stored models.Referral
	require.NoError(t, db.First(&stored, link.ID).Error)
	assert.Equal(t, models.ReferralStatusPending, stored.Status)
}

func TestProcessPurchaseUnknownPlanFallsBack(t *testing.T) {
	engine, db := newTestEngine(t)
	referrer := createUser(t, db, "referrer@example.com", "AAAA1111")
	referred := createUser(t, db, "referred@example.com", "BBBB2222")
	createPendingReferral(t, db, referrer.ID, referred.ID)

	result, err := engine.ProcessPurchase(referred.ID, "some-future-plan")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, 10, result.Amount)
}

func TestSettlePurchaseResolvesEmail(t *testing.T) {
	engine, db := newTestEngine(t)
	referrer := createUser(t, db, "referrer@example.com", "AAAA1111")
	referred := createUser(t, db, "referred@example.com", "BBBB2222")
	createPendingReferral(t, db, referrer.ID, referred.ID)

	result, err := engine.SettlePurchase("referred@example.com", "fashion")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, 25, result.Amount)
}

func TestSettlePurchaseUnknownEmailIsNoOp(t *testing.T) {
	engine, _ := newTestEngine(t)

	result, err := engine.SettlePurchase("nobody@example.com", "fashion")
	require.NoError(t, err)
	assert.False(t, result.Granted)
}

func TestSettlePurchaseMasterIsNoOp(t *testing.T) {
	db := newTestDB(t)
	master := identity.NewMasterProvider("demo@example.com", "demo-password")
	idp := identity.Chain{master, identity.NewDBProvider(repository.NewUserRepository(db))}
	engine := NewEngine(db, idp)

	result, err := engine.SettlePurchase("demo@example.com", "fashion")
	require.NoError(t, err)
	assert.False(t, result.Granted)
}
