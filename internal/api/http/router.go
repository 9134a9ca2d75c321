package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fairgrounds/registration-service/internal/api/http/handlers"
	"github.com/fairgrounds/registration-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Registrations *handlers.RegistrationsHandler
	Stats         *handlers.StatsHandler
	Users         *handlers.UsersHandler
	Principal     *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The principal middleware only
// resolves the caller; each handler enforces its own policy check.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.Principal.Handle)

	api.Post("/auth/login", cfg.Auth.Login)

	api.Post("/registrations", cfg.Registrations.Create)
	api.Get("/registrations", cfg.Registrations.List)
	api.Get("/registrations/:id", cfg.Registrations.Get)
	api.Put("/registrations/:id", cfg.Registrations.Update)
	api.Delete("/registrations/:id", cfg.Registrations.Delete)

	api.Get("/dashboard/stats", cfg.Stats.Dashboard)
	api.Get("/treasury/stats", cfg.Stats.Treasury)

	api.Post("/users", cfg.Users.Create)
	api.Get("/users", cfg.Users.List)
	api.Get("/users/:id", cfg.Users.Get)
	api.Put("/users/:id", cfg.Users.Update)
	api.Delete("/users/:id", cfg.Users.Delete)
}
