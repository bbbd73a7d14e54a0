// Package server assembles the fiber application: error rendering,
// middleware and routes.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/redis/go-redis/v9"

	"toolszone/internal/auth"
	"toolszone/internal/config"
	"toolszone/internal/domain"
	"toolszone/internal/http/handlers"
	"toolszone/internal/http/middleware"
	"toolszone/internal/infra/logging"
	"toolszone/internal/store"
)

// Deps is everything the HTTP layer needs. main builds each piece once.
type Deps struct {
	Config         config.Config
	Store          store.Store
	Auth           *auth.Service
	Merge          handlers.Merger
	Renderer       handlers.PDFRenderer
	Redis          *redis.Client
	LimiterStorage fiber.Storage
}

// New returns a configured app with all routes mounted.
func New(deps Deps) *fiber.App {
	cfg := deps.Config
	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		BodyLimit:             cfg.Server.BodyLimitBytes,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(cfg.Server.Production),
	})

	var ready middleware.ReadinessFunc
	if deps.Store != nil {
		ready = deps.Store.Ping
	}
	middleware.Register(app, cfg, ready)
	RegisterRoutes(app, deps)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return &domain.Error{Kind: domain.KindNotFound, Message: "Route not found"}
	})

	return app
}

// RegisterRoutes mounts every handler under /api.
func RegisterRoutes(app *fiber.App, deps Deps) {
	cfg := deps.Config
	bearer := middleware.Bearer(deps.Auth.Tokens())

	api := app.Group("/api", middleware.ClientRateLimit(cfg, deps.LimiterStorage))

	authH := handlers.NewAuthHandler(deps.Auth)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authH.Register)
	authGroup.Post("/login", authH.Login)
	if deps.Auth.GoogleEnabled() {
		authGroup.Post("/google", authH.Google)
	}
	authGroup.Get("/me", bearer, authH.Me)
	authGroup.Post("/logout", authH.Logout)

	var usage handlers.UsageRecorder
	if deps.Store != nil {
		usage = deps.Store
	}

	tools := api.Group("/tools")

	merge := handlers.NewMergeHandler(deps.Merge, usage, handlers.MergeCache{
		Redis: deps.Redis,
		TTL:   cfg.Cache.MergeCacheTTL,
	})
	tools.Post("/pdf-merger/merge", bearer, merge.Handle)

	resumeH := handlers.NewResumeHandler(deps.Renderer, usage)
	tools.Get("/resume-maker/templates", resumeH.Templates)
	tools.Post("/resume-maker/generate", bearer, resumeH.Generate)

	if usage != nil {
		tools.Get("/usage", bearer, handlers.NewUsageHandler(usage).List)
	}

	app.Get("/ops/monitor", bearer, middleware.RequireRole(domain.RoleAdmin), monitor.New())
}

func statusForKind(k domain.Kind) int {
	switch k {
	case domain.KindInvalidInput:
		return fiber.StatusBadRequest
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func kindForStatus(code int) domain.Kind {
	switch {
	case code == fiber.StatusUnauthorized:
		return domain.KindUnauthorized
	case code == fiber.StatusForbidden:
		return domain.KindForbidden
	case code == fiber.StatusNotFound:
		return domain.KindNotFound
	case code == fiber.StatusConflict:
		return domain.KindConflict
	case code < 500:
		return domain.KindInvalidInput
	default:
		return domain.KindInternal
	}
}

// errorHandler renders every error as {"message", "kind"}. Internal causes
// are logged; only domain messages reach the client.
func errorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		kind := domain.KindInternal
		msg := "Internal Server Error"

		var de *domain.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &de):
			kind = de.Kind
			code = statusForKind(de.Kind)
			msg = de.Message
		case errors.As(err, &fe):
			code = fe.Code
			kind = kindForStatus(fe.Code)
			msg = fe.Message
		default:
			if !production {
				msg = err.Error()
			}
		}

		if code >= fiber.StatusInternalServerError {
			logging.Error("Request failed", "path", c.Path(), "status", code, "kind", string(kind), "error", err)
		} else {
			logging.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)
		}

		return c.Status(code).JSON(fiber.Map{
			"message": msg,
			"kind":    kind,
		})
	}
}
