package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devtama101/customer-support-dashboard/internal/api/http/handlers"
	"github.com/devtama101/customer-support-dashboard/internal/auth"
	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Tickets           *handlers.TicketsHandler
	AI                *handlers.AIHandler
	Customers         *handlers.CustomersHandler
	Agents            *handlers.AgentsHandler
	Widget            *handlers.WidgetHandler
	AuthMiddleware    *auth.AuthMiddleware
	WidgetRateLimiter fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	api.Post("/auth/login", cfg.Agents.Login)

	widget := api.Group("/widget")
	if cfg.WidgetRateLimiter != nil {
		widget.Use(cfg.WidgetRateLimiter)
	}
	widget.Post("/tickets", cfg.Widget.Intake)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/priority", cfg.Tickets.UpdatePriority)
	tickets.Patch("/:id/assignee", cfg.Tickets.Assign)
	tickets.Delete("/:id", auth.RequireRole(domain.AgentRoleAdmin), cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)
	tickets.Get("/:id/messages", cfg.Tickets.ListMessages)
	tickets.Delete("/:id/messages/:messageId", auth.RequireRole(domain.AgentRoleAdmin), cfg.Tickets.DeleteMessage)

	tickets.Get("/:id/ai/summary", cfg.AI.GetSummary)
	tickets.Post("/:id/ai/summary", cfg.AI.RegenerateSummary)
	tickets.Post("/:id/ai/suggest-reply", cfg.AI.SuggestReply)
	tickets.Post("/:id/ai/suggest-priority", cfg.AI.SuggestPriority)
	tickets.Get("/:id/ai/logs", cfg.AI.ListLogs)

	protected.Get("/ai/usage", cfg.AI.GetUsage)

	customers := protected.Group("/customers")
	customers.Post("", cfg.Customers.Create)
	customers.Get("", cfg.Customers.List)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Patch("/:id", cfg.Customers.Update)
	customers.Patch("/:id/metadata", cfg.Customers.UpdateMetadata)
	customers.Delete("/:id", auth.RequireRole(domain.AgentRoleAdmin), cfg.Customers.Delete)

	agents := protected.Group("/agents")
	agents.Post("", auth.RequireRole(domain.AgentRoleAdmin), cfg.Agents.Create)
	agents.Get("", cfg.Agents.List)
	agents.Get("/:id", cfg.Agents.Get)

	teams := protected.Group("/teams")
	teams.Post("", auth.RequireRole(domain.AgentRoleAdmin), cfg.Agents.CreateTeam)
	teams.Get("", cfg.Agents.ListTeams)
	teams.Patch("/:id/settings", auth.RequireRole(domain.AgentRoleAdmin), cfg.Agents.UpdateTeamSettings)

	stats := protected.Group("/stats")
	stats.Get("/dashboard", cfg.Tickets.GetStats)
	stats.Get("/sentiment", cfg.Tickets.GetSentimentBreakdown)
	stats.Get("/volume", cfg.Tickets.GetVolumeSeries)
}
