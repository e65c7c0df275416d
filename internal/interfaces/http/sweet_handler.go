package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/candylab/sweetshop-api/internal/application/dto"
	"github.com/candylab/sweetshop-api/internal/application/sweets"
	"github.com/candylab/sweetshop-api/internal/application/validation"
	"github.com/candylab/sweetshop-api/internal/domain"
	"github.com/candylab/sweetshop-api/pkg/logger"
)

// SweetHandler serves the catalog endpoints.
type SweetHandler struct {
	uc  *sweets.UseCase
	log *logger.Logger
}

// NewSweetHandler builds the sweets handler.
func NewSweetHandler(uc *sweets.UseCase, log *logger.Logger) *SweetHandler {
	return &SweetHandler{uc: uc, log: log}
}

// Create handles POST /api/sweets (admin).
func (h *SweetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return h.respondError(c, err, "Server error while creating sweet")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// List handles GET /api/sweets.
func (h *SweetHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return h.respondError(c, err, "Server error while fetching sweets")
	}
	return c.JSON(dto.OK(out))
}

// Search handles GET /api/sweets/search. Always 200 for an authenticated
// caller; unparsable price filters are ignored, not rejected.
func (h *SweetHandler) Search(c *fiber.Ctx) error {
	in := dto.SearchSweetsRequest{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
	}
	out, err := h.uc.Search(in)
	if err != nil {
		return h.respondError(c, err, "Server error while searching sweets")
	}
	return c.JSON(dto.OK(out))
}

// Update handles PUT /api/sweets/:id (admin).
func (h *SweetHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return h.respondError(c, err, "Server error while updating sweet")
	}
	return c.JSON(dto.OK(out))
}

// Delete handles DELETE /api/sweets/:id (admin).
func (h *SweetHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return h.respondError(c, err, "Server error while deleting sweet")
	}
	return c.JSON(dto.Response{Success: true, Message: "Sweet deleted successfully"})
}

// Purchase handles POST /api/sweets/:id/purchase (any authenticated user).
func (h *SweetHandler) Purchase(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}
	out, msg, err := h.uc.Purchase(c.Params("id"), in)
	if err != nil {
		return h.respondError(c, err, "Server error while purchasing sweet")
	}
	return c.JSON(dto.OKMessage(out, msg))
}

// Restock handles POST /api/sweets/:id/restock (admin).
func (h *SweetHandler) Restock(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}
	out, msg, err := h.uc.Restock(c.Params("id"), in)
	if err != nil {
		return h.respondError(c, err, "Server error while restocking sweet")
	}
	return c.JSON(dto.OKMessage(out, msg))
}

// respondError maps the error taxonomy onto the transport: validation,
// duplicate and insufficient-stock are 400, not-found 404, anything
// unexpected (store unreachable included) is the one retryable 500.
func (h *SweetHandler) respondError(c *fiber.Ctx, err error, fallback string) error {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(verr.Error()))
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Insufficient quantity available"))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Duplicate field value entered"))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Sweet not found"))
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("sweet operation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail(fallback))
	}
}
