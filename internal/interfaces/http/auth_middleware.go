package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/candylab/sweetshop-api/internal/application/dto"
	"github.com/candylab/sweetshop-api/internal/domain"
	"github.com/candylab/sweetshop-api/internal/domain/entity"
	pkgjwt "github.com/candylab/sweetshop-api/pkg/jwt"
)

// Locals key for the authenticated user in Fiber.
const LocalUser = "current_user"

// UserLoader resolves a verified token's user id to the current account.
// auth.UseCase satisfies it; tests substitute a stub.
type UserLoader interface {
	GetUser(id string) (*entity.User, error)
}

// AuthRequired verifies the bearer token and reloads the user from the
// credential store, so the role in effect is always the stored one, never a
// stale claim. A missing, malformed, expired or forged token, or a user that
// no longer exists, answers 401. A store failure answers 500: the caller's
// token may be perfectly fine and a retry can succeed.
func AuthRequired(jwtSecret string, users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("No token provided, authorization denied"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Token is not valid"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("No token provided, authorization denied"))
		}

		userID, err := pkgjwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Token is not valid"))
		}
		user, err := users.GetUser(userID)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Token is not valid"))
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Server error during authentication"))
		}
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Token is not valid"))
		}

		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// AdminRequired gates admin-only operations. Runs after AuthRequired; a
// valid identity without the admin role gets 403.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("No token provided, authorization denied"))
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail("Access denied. Admin privileges required"))
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user from the request context, or
// nil before AuthRequired has run.
func CurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}
