package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/smartlearn/autograde-api/internal/config"
	"github.com/smartlearn/autograde-api/internal/handler"
	"github.com/smartlearn/autograde-api/internal/middleware"
	"github.com/smartlearn/autograde-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	GradingHandler  *handler.GradingHandler
	FeedbackHandler *handler.FeedbackHandler
	ReviewHandler   *handler.ReviewHandler
	OptionsHandler  *handler.OptionsHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Rate limiting keys off the authenticated user, so it sits after JWT.
	grading := api.Group("/grading", jwtMiddleware, middleware.RateLimit("grading", 60, time.Minute))
	teacherOnly := middleware.RequireRole(middleware.RoleTeacher)

	// Role guards are route-scoped: the trigger/result and feedback routes
	// share the /grading prefix, so group-level Use middleware would stack
	// every guard onto every request.
	if deps.GradingHandler != nil {
		deps.GradingHandler.Register(grading, teacherOnly,
			middleware.RequireRole(middleware.RoleService, middleware.RoleTeacher))
	}

	// Student-facing feedback flow.
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.Register(grading,
			middleware.RequireRole(middleware.RoleStudent, middleware.RoleTeacher))
	}

	// Teacher review queue.
	if deps.ReviewHandler != nil {
		deps.ReviewHandler.Register(grading.Group("/reviews", teacherOnly))
	}

	// Per-assignment AI settings.
	if deps.OptionsHandler != nil {
		deps.OptionsHandler.Register(grading.Group("/assignments", teacherOnly))
	}
}
