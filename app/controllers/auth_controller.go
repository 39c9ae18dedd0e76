package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/middleware"
	"github.com/fashionai/fashionai/internal/pkg/plans"
	"github.com/fashionai/fashionai/internal/pkg/referral"
)

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ReferredBy string `json:"referred_by,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a user, issues their referral code and, when a valid
// code was presented, links the pending referral. An invalid code is ignored;
// signup proceeds without a link.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	code, err := deps.Registry.GenerateUniqueCode()
	if err != nil {
		if errors.Is(err, referral.ErrCodeGenerationExhausted) {
			// Signup must not proceed with a non-unique code.
			log.Printf("auth: referral code generation exhausted for %q", req.Email)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "unavailable", "message": "Could not issue a referral code, try again"})
		}
		log.Printf("auth: code generation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Registration failed"})
	}

	user, err := models.CreateUser(req.Name, strings.ToLower(strings.TrimSpace(req.Email)), req.Password, code)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if req.ReferredBy != "" {
		user.ReferredBy = strings.ToUpper(strings.TrimSpace(req.ReferredBy))
	}

	if err := deps.Repos.User.Create(user); err != nil {
		log.Printf("auth: user create failed for %q: %v", req.Email, err)
		// Only report a conflict when the address is actually taken. Driver
		// error types differ between MySQL and sqlite, so check the table
		// instead of the error value.
		if _, lookupErr := deps.Repos.User.GetByEmail(user.Email); lookupErr == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Email already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Registration failed"})
	}

	if user.ReferredBy != "" {
		if _, err := deps.Registry.LinkReferral(user.ReferredBy, user.ID); err != nil {
			// The account exists either way; the missing link only costs a commission.
			log.Printf("auth: referral link failed for user %d: %v", user.ID, err)
		}
	}

	token, err := middleware.IssueToken(&identity.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Plan:   plans.Normalize(user.PlanType),
	})
	if err != nil {
		log.Printf("auth: token issue failed for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Registration succeeded but login failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleLogin authenticates a user and returns a bearer token. The master
// demo account is handled by its own identity provider and never hits the
// user table.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if ident, ok := deps.Master.Authenticate(req.Email, req.Password); ok {
		token, err := middleware.IssueToken(ident)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Login failed"})
		}
		return c.JSON(fiber.Map{"token": token, "master": true})
	}

	user, err := deps.Repos.User.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
		}
		log.Printf("auth: login lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Login failed"})
	}
	if !user.IsActive() || !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := deps.Repos.User.Update(user); err != nil {
		log.Printf("auth: failed to record login time for user %d: %v", user.ID, err)
	}

	token, err := middleware.IssueToken(&identity.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Plan:   plans.Normalize(user.PlanType),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Login failed"})
	}

	return c.JSON(fiber.Map{"token": token})
}
