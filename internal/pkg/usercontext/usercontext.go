package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/plans"
)

// ContextKey is the fiber Locals key carrying the request identity.
const ContextKey = "USER_CONTEXT"

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     uint       `json:"user_id"`
	Email      string     `json:"email"`
	Plan       plans.Plan `json:"plan"`
	IsLoggedIn bool       `json:"is_logged_in"`
	IsMaster   bool       `json:"is_master"`
}

// Set stores the resolved identity on the request.
func Set(c *fiber.Ctx, ident *identity.Identity) {
	c.Locals(ContextKey, UserContext{
		UserID:     ident.UserID,
		Email:      ident.Email,
		Plan:       ident.Plan,
		IsLoggedIn: true,
		IsMaster:   ident.Master,
	})
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}

// Identity rebuilds the identity value from the request context.
func Identity(c *fiber.Ctx) *identity.Identity {
	ctx := GetUserContext(c)
	return &identity.Identity{
		UserID: ctx.UserID,
		Email:  ctx.Email,
		Plan:   ctx.Plan,
		Master: ctx.IsMaster,
	}
}
