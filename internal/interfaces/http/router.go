package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/candylab/sweetshop-api/internal/application/auth"
	"github.com/candylab/sweetshop-api/internal/application/dto"
	"github.com/candylab/sweetshop-api/internal/application/sweets"
	"github.com/candylab/sweetshop-api/pkg/logger"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	SweetUC   *sweets.UseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registers the API routes. Gates per operation: list/search/purchase
// need any authenticated user, every other catalog mutation needs admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "Sweet Shop API is running!"})
	})

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Sweets (authenticated; admin-only where noted)
	sweetHandler := NewSweetHandler(deps.SweetUC, deps.Log)
	admin := AdminRequired()
	sweetsGroup := api.Group("/sweets", AuthRequired(deps.JWTSecret, deps.AuthUC))
	sweetsGroup.Post("/", admin, sweetHandler.Create)
	sweetsGroup.Get("/", sweetHandler.List)
	sweetsGroup.Get("/search", sweetHandler.Search)
	sweetsGroup.Put("/:id", admin, sweetHandler.Update)
	sweetsGroup.Delete("/:id", admin, sweetHandler.Delete)
	sweetsGroup.Post("/:id/purchase", sweetHandler.Purchase)
	sweetsGroup.Post("/:id/restock", admin, sweetHandler.Restock)

	// Anything else is a 404, still enveloped.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Route not found"))
	})
}
