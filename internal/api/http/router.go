package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/api/http/handlers"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reports        *handlers.ReportsHandler
	Media          *handlers.MediaHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware

	// AuthRateLimit caps auth requests per client IP within AuthRateWindow.
	// Zero disables the limiter.
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// MediaDir is served under MediaPublicPath when media is kept on local disk.
	MediaDir        string
	MediaPublicPath string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.MediaDir != "" && cfg.MediaPublicPath != "" {
		app.Static(cfg.MediaPublicPath, cfg.MediaDir)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	if cfg.AuthRateLimit > 0 {
		authGroup.Use(limiter.New(limiter.Config{
			Max:               cfg.AuthRateLimit,
			Expiration:        cfg.AuthRateWindow,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	api.Post("/upload", cfg.AuthMiddleware.Handle, cfg.Media.Upload)
	api.Post("/detect", cfg.AuthMiddleware.Handle, cfg.Media.Detect)

	reports := api.Group("/reports", cfg.AuthMiddleware.Handle)
	reports.Post("", cfg.Reports.CreateReport)
	reports.Get("", cfg.Reports.ListReports)
	reports.Get("/:id", cfg.Reports.GetReport)
	reports.Get("/:id/history", cfg.Reports.ReportHistory)
	reports.Patch("/:id", auth.RequireAdmin(), cfg.Reports.UpdateReport)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Put("/users/:id/admin", cfg.Admin.SetAdmin)
	admin.Post("/users/:id/deactivate", cfg.Admin.Deactivate)
	admin.Get("/metrics", cfg.Admin.Metrics)
}
