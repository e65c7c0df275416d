package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/candylab/sweetshop-api/internal/application/auth"
	"github.com/candylab/sweetshop-api/internal/application/dto"
	"github.com/candylab/sweetshop-api/internal/application/validation"
	"github.com/candylab/sweetshop-api/internal/domain"
	"github.com/candylab/sweetshop-api/pkg/logger"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	uc  *auth.UseCase
	log *logger.Logger
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(uc *auth.UseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	out, err := h.uc.Register(in)
	if err != nil {
		var verr *validation.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(verr.Error()))
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("User already exists with this email"))
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Duplicate field value entered"))
		default:
			h.log.Error().Err(err).Msg("registration failed")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Server error during registration"))
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// Login handles POST /api/auth/login. Unknown email and wrong password share
// one message so accounts cannot be enumerated.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	out, err := h.uc.Login(in)
	if err != nil {
		var verr *validation.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(verr.Error()))
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Invalid credentials"))
		default:
			h.log.Error().Err(err).Msg("login failed")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Server error during login"))
		}
	}
	return c.JSON(dto.OK(out))
}
