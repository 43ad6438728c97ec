package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is where the authenticated user id lands in the request locals.
const UserIDKey = "user_id"

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth validates the bearer token and stores the user id in locals.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return unauthorized(c)
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c)
		}
		userID, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return unauthorized(c)
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Unauthorized",
	})
}

// UserID reads the authenticated user id set by RequireAuth.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(UserIDKey).(string); ok {
		return v
	}
	return ""
}
