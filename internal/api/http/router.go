package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-admin/internal/api/http/handlers"
	"github.com/spec-kit/employee-admin/internal/auth"
	"github.com/spec-kit/employee-admin/internal/domain"
	"github.com/spec-kit/employee-admin/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Employees      *handlers.EmployeesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// ServerConfig bundles everything NewServer wires.
type ServerConfig struct {
	AppName        string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	Routes         RouteConfig
}

// NewServer builds the console fiber app with middlewares and routes.
func NewServer(cfg ServerConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, cfg.Metrics, cfg.RequestTimeout)
	RegisterRoutes(app, cfg.Routes)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	admin.Get("/employees", cfg.Employees.List)

	// ADD and edit screens are admin-only; the list above is open to any
	// authenticated caller and only hides the ADD affordance.
	requireAdmin := auth.RequireAnyRole(domain.RoleAdmin)
	admin.Get("/employees/:employeeId", requireAdmin, cfg.Employees.Form)
	admin.Post("/employees/:employeeId", requireAdmin, cfg.Employees.Submit)
	admin.Post("/employees/:employeeId/cancel", requireAdmin, cfg.Employees.Cancel)
}
