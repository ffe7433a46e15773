package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-tracker/internal/api/http/handlers"
	"github.com/spec-kit/query-tracker/internal/auth"
	"github.com/spec-kit/query-tracker/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Client         *handlers.ClientHandler
	Support        *handlers.SupportHandler
	Admin          *handlers.AdminHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset", cfg.Auth.ResetPassword)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/session", cfg.AuthMiddleware.Handle, cfg.Auth.Session)

	client := app.Group("/client", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleClient))
	client.Post("/queries", cfg.Client.SubmitQuery)
	client.Get("/queries", cfg.Client.ListMyQueries)

	support := app.Group("/support", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSupport))
	support.Get("/tickets", cfg.Support.ListTickets)
	support.Get("/tickets/assigned", cfg.Support.ListAssigned)
	support.Get("/agents", cfg.Support.ListAgents)
	support.Get("/metrics", cfg.Support.Metrics)
	support.Post("/chat", cfg.Support.PostChat)
	support.Post("/doubts", cfg.Support.PostDoubt)
	support.Put("/availability", cfg.Support.SetAvailability)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSupport, domain.RoleAdmin))
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/bulk", cfg.Tickets.BulkUpdate)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/tickets", cfg.Admin.ListTickets)
	admin.Get("/metrics", cfg.Admin.Metrics)
	admin.Get("/chat", cfg.Admin.ListChat)
	admin.Get("/doubts", cfg.Admin.ListDoubts)
	admin.Get("/availability", cfg.Admin.Availability)
}
