package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-catalog/internal/api/http/handlers"
	"github.com/spec-kit/product-catalog/internal/auth"
	"github.com/spec-kit/product-catalog/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Catalog writes are ADMIN-only; reads
// require any authenticated role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)

	products := app.Group("/products", cfg.AuthMiddleware.Handle)
	products.Get("/", auth.RequireRole(), cfg.Products.List)
	products.Get("/:id", auth.RequireRole(), cfg.Products.GetOne)
	products.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Products.Create)
	products.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Products.Update)
	products.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Products.Delete)
}
