package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Profiles       *handlers.ProfilesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
		app.Get("/health/metrics", cfg.Health.Metrics)
	}

	app.Post("/register", cfg.Auth.Register)
	app.Post("/token", cfg.Auth.Token)
	app.Post("/token/refresh", cfg.Auth.Refresh)
	app.Post("/token/revoke", cfg.Auth.Revoke)

	requireAuth := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAuthenticated()}

	tickets := app.Group("/tickets", requireAuth...)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.ReplaceTicket)
	tickets.Patch("/:id", cfg.Tickets.PatchTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/send-email", cfg.Tickets.SendEmail)

	profiles := app.Group("/profiles", requireAuth...)
	profiles.Get("/", cfg.Profiles.ListProfiles)
	profiles.Post("/", cfg.Profiles.CreateProfile)
	profiles.Get("/:id", cfg.Profiles.GetProfile)
	profiles.Delete("/:id", cfg.Profiles.DeleteProfile)
}
