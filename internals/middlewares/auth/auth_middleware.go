package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// AdminJWT guards the /api/a group. The reconciliation trigger and all admin
// CRUD sit behind it; webhook routes never pass through here (the provider
// signature is their authentication).
func AdminJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT secret")
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}); err != nil {
			log.Println("[ERROR] token parse:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid or expired token")
		}

		role, _ := claims["role"].(string)
		if role != "admin" {
			return fiber.NewError(fiber.StatusForbidden, "Forbidden - admin role required")
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Locals("admin_id", sub)
		}
		if email, ok := claims["email"].(string); ok {
			c.Locals("admin_email", email)
		}

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header")
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid Authorization header")
	}
	return parts[1], nil
}
