package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/park-booking/internal/api/http/handlers"
	"github.com/spec-kit/park-booking/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/admin/login", cfg.Admin.Login)

	app.Get("/tickets", cfg.Tickets.ListTickets)
	app.Get("/tickets/:index", cfg.Tickets.GetTicket)

	// Visitor routes share the root prefix with public ones, so their guards are attached
	// per route rather than through a group.
	visitor := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireUser(), h}
	}
	app.Get("/me", visitor(cfg.Users.Me)...)
	app.Patch("/me", visitor(cfg.Users.UpdateMe)...)
	app.Get("/me/purchases", visitor(cfg.Users.Purchases)...)
	app.Post("/purchases", visitor(cfg.Tickets.Purchase)...)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Delete("/users/:username", cfg.Admin.DeleteUser)
	admin.Put("/tickets/price", cfg.Admin.SetPrice)
	admin.Get("/tickets/sales", cfg.Admin.SalesReport)
	admin.Get("/metrics", cfg.Admin.Metrics)
}
