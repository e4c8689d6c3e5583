package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"studyhub/internal/session"
)

// UserIDLocalKey holds the authenticated user id in Fiber's context locals.
const UserIDLocalKey = "user_id"

// TokenVerifier is satisfied by session.Verifier.
type TokenVerifier interface {
	Verify(token string) (session.Identity, error)
}

// Auth requires a valid bearer access token and stores the caller's user id.
// Failures surface as 401 through the global error handler.
func Auth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		id, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(UserIDLocalKey, id.UserID)
		return c.Next()
	}
}

// UserID returns the id stored by Auth, or "".
func UserID(c *fiber.Ctx) string {
	uid, _ := c.Locals(UserIDLocalKey).(string)
	return uid
}
