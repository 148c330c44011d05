package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/api/http/handlers"
	"github.com/spec-kit/ticket-console/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Admin    *handlers.AdminHandler
	User     *handlers.UserHandler
	Visitors *auth.Visitors
	Gate     *auth.GateMiddleware
}

// RegisterRoutes wires HTTP routes. Health probes are registered ahead of
// the visitor cookie so they never receive one.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.Visitors.Middleware())

	app.Get("/", cfg.Gate.Redirect)
	app.Get(auth.LoginPath, cfg.Auth.ShowLogin)
	app.Post(auth.LoginPath, cfg.Auth.Login)
	app.Get("/signup", cfg.Auth.ShowSignup)
	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/logout", cfg.Auth.Logout)

	admin := app.Group(auth.AdminDashboardPath, cfg.Gate.RequireAdmin())
	admin.Get("/", cfg.Admin.Show)
	admin.Get("/audit", cfg.Admin.Audit)
	admin.Post("/panel/close", cfg.Admin.ClosePanel)
	admin.Post("/users/:id/delete", cfg.Admin.DeleteUser)
	admin.Post("/tickets/:id/delete", cfg.Admin.DeleteTicket)
	admin.Post("/tickets/:id/status", cfg.Admin.UpdateTicketStatus)
	admin.Post("/:resource/page", cfg.Admin.Page)
	admin.Post("/:resource/filter", cfg.Admin.Filter)
	admin.Post("/:resource/:id/view", cfg.Admin.View)

	user := app.Group(auth.UserDashboardPath, cfg.Gate.RequireUser())
	user.Get("/", cfg.User.Show)
	user.Post("/panel/close", cfg.User.ClosePanel)
	user.Post("/tickets", cfg.User.Submit)
	user.Post("/tickets/page", cfg.User.Page)
	user.Post("/tickets/filter", cfg.User.Filter)
	user.Post("/tickets/new", cfg.User.New)
	user.Post("/tickets/:id/view", cfg.User.View)
	user.Post("/tickets/:id/edit", cfg.User.Edit)
	user.Post("/tickets/:id/delete", cfg.User.Delete)
}
