package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/plans"
	"github.com/fashionai/fashionai/internal/pkg/usercontext"
)

// stubProvider resolves a single fixed identity.
type stubProvider struct {
	ident *identity.Identity
}

func (p stubProvider) ResolveByEmail(email string) (*identity.Identity, error) {
	if p.ident != nil && email == p.ident.Email {
		return p.ident, nil
	}
	return nil, identity.ErrUnknownIdentity
}

func (p stubProvider) ResolveByID(id uint) (*identity.Identity, error) {
	if p.ident != nil && id == p.ident.UserID {
		return p.ident, nil
	}
	return nil, identity.ErrUnknownIdentity
}

func newAuthTestApp(idp identity.Provider) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthRequired(idp), func(c *fiber.Ctx) error {
		ctx := usercontext.GetUserContext(c)
		return c.JSON(fiber.Map{"user_id": ctx.UserID, "master": ctx.IsMaster})
	})
	return app
}

func TestAuthRequiredRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	ident := &identity.Identity{UserID: 7, Email: "user@example.com", Plan: plans.PlanBasic}
	app := newAuthTestApp(stubProvider{ident: ident})

	token, err := IssueToken(ident)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	app := newAuthTestApp(stubProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequiredRejectsGarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newAuthTestApp(stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not.a.token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequiredRejectsTokenSignedWithOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	ident := &identity.Identity{UserID: 7, Email: "user@example.com", Plan: plans.PlanBasic}
	token, err := IssueToken(ident)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	app := newAuthTestApp(stubProvider{ident: ident})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequiredRejectsDeletedUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	ident := &identity.Identity{UserID: 7, Email: "user@example.com", Plan: plans.PlanBasic}
	token, err := IssueToken(ident)
	require.NoError(t, err)

	// The provider no longer knows the user; the otherwise valid token fails.
	app := newAuthTestApp(stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
