package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/api/handlers"
	"github.com/amaumene/trendarr/internal/api/middleware"
	"github.com/amaumene/trendarr/internal/config"
	"github.com/amaumene/trendarr/internal/metrics"
)

// Server represents the HTTP server
type Server struct {
	app    *fiber.App
	addr   string
	runner handlers.SyncRunner
	cancel context.CancelFunc
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, runner handlers.SyncRunner, metricsManager *metrics.Manager, logger *logrus.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
	})
	app.Use(middleware.Logging(logger))

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		app:    app,
		addr:   ":" + cfg.ServerPort,
		runner: runner,
		cancel: cancel,
		logger: logger,
	}

	s.setupRoutes(runCtx, metricsManager)
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(runCtx context.Context, metricsManager *metrics.Manager) {
	s.app.Get("/health", handlers.NewHealthHandler(s.logger).Handle)
	s.app.Get("/status", handlers.NewStatusHandler(s.runner, s.logger).Handle)
	s.app.Post("/run", handlers.NewRunHandler(runCtx, s.runner, s.logger).Handle)

	if metricsManager != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(metricsManager.Handler()))
	}
}

// App exposes the fiber application, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server and blocks until ctx is done or the listener fails
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the HTTP server and cancels triggered runs
func (s *Server) Shutdown() error {
	s.logger.Info("Shutting down HTTP server")
	s.cancel()
	return s.app.ShutdownWithTimeout(10 * time.Second)
}
