package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/justinloyola/alma/internal/service"
)

// Login exchanges form credentials (username, password) for a bearer
// token in the OAuth2 password-flow shape.
func Login(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.FormValue("username")
		password := c.FormValue("password")
		if email == "" || password == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
		}

		user, err := auth.Authenticate(c.UserContext(), email, password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				return writeError(c, fiber.StatusBadRequest, "INVALID_CREDENTIALS", "incorrect email or password")
			case errors.Is(err, service.ErrInactiveUser):
				return writeError(c, fiber.StatusBadRequest, "INACTIVE_USER", "inactive user")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		token, err := auth.IssueToken(user)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(token)
	}
}
