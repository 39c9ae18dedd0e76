package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fashionai/fashionai/internal/pkg/env"
	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/usercontext"
)

const tokenTTL = 24 * time.Hour

func jwtSecret() []byte {
	return []byte(env.GetEnv("JWT_SECRET", "dev-secret-change-me"))
}

// IssueToken signs a bearer token for the resolved identity.
func IssueToken(ident *identity.Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": ident.UserID,
		"email":   ident.Email,
		"master":  ident.Master,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

// AuthRequired validates the bearer token and attaches the resolved identity
// to the request context. Identities are re-resolved through the provider so
// revoked or deleted users fail closed.
func AuthRequired(idp identity.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing bearer token"})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return jwtSecret(), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid token claims"})
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid token subject"})
		}

		ident, err := idp.ResolveByID(uint(userIDFloat))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Unknown identity"})
		}

		usercontext.Set(c, ident)
		return c.Next()
	}
}
