package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/catalog-api/internal/api/dto"
	"github.com/spec-kit/catalog-api/internal/api/http/handlers"
	"github.com/spec-kit/catalog-api/internal/api/validation"
	"github.com/spec-kit/catalog-api/internal/auth"
	"github.com/spec-kit/catalog-api/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.AuthMiddleware
	Validator      *validation.Validator
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Protected routes always run
// AuthMiddleware.Handle before any role check.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", validation.Body[dto.UserRegisterRequest](cfg.Validator), cfg.Auth.Register)
	authGroup.Post("/login", validation.Body[dto.UserLoginRequest](cfg.Validator), cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Me)

	products := api.Group("/products")
	products.Get("/", cfg.Products.List)
	products.Get("/search", cfg.Products.Search)
	products.Get("/category/:category", cfg.Products.ListByCategory)
	products.Get("/:id", cfg.Products.Get)

	requireAdmin := auth.RequireAdmin()
	products.Post("/",
		cfg.AuthMiddleware.Handle,
		requireAdmin,
		validation.Body[dto.CreateProductRequest](cfg.Validator),
		cfg.Products.Create)
	products.Put("/:id",
		cfg.AuthMiddleware.Handle,
		requireAdmin,
		validation.Body[dto.UpdateProductRequest](cfg.Validator),
		cfg.Products.Update)
	products.Delete("/:id",
		cfg.AuthMiddleware.Handle,
		requireAdmin,
		cfg.Products.Delete)
}
