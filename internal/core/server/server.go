package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/core/cache"
	"storefront/internal/core/config"
	"storefront/internal/core/logger"
	"storefront/internal/core/metrics"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "storefront/docs/swagger"
)

const healthTimeout = 2 * time.Second

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
	// store is pinged by the health endpoint.
	store cache.Cache
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig, store cache.Cache) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "storefront",
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(recover.New())

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Use(metrics.Middleware())

	s := &Server{
		App:   app,
		cfg:   cfg,
		store: store,
	}

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", metrics.Handler())
	app.Get("/healthz", s.health)

	return s
}

// health handles GET /healthz.
// @Summary Health check
// @Description Reports whether the server and its Redis store are reachable.
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) health(c *fiber.Ctx) error {
	if s.store == nil {
		return c.Status(http.StatusOK).JSON(HealthResponse{Status: "ok", Redis: "disabled"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logger.Get().Warn("Health check failed", zap.String("ray_id", RayID(c)), zap.Error(err))
		return c.Status(http.StatusServiceUnavailable).JSON(HealthResponse{Status: "degraded", Redis: "unreachable"})
	}
	return c.Status(http.StatusOK).JSON(HealthResponse{Status: "ok", Redis: "ok"})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.App.ShutdownWithTimeout(timeout)
}
