package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/justinloyola/alma/internal/service"
)

// UserLocalKey is the key under which the authenticated user is stored in
// Fiber's context locals.
const UserLocalKey = "auth_user"

// RequireAuth rejects requests that do not carry a valid bearer token and
// stores the resolved user in context locals for downstream handlers.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		user, err := auth.UserFromToken(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrInactiveUser) {
				return fiber.NewError(fiber.StatusForbidden, "inactive user")
			}
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return fiber.NewError(fiber.StatusUnauthorized, "could not validate credentials")
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
