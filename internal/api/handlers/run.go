package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/controllers"
)

// RunHandler triggers a sync run in the background
type RunHandler struct {
	runner SyncRunner
	ctx    context.Context
	logger *logrus.Logger
}

// NewRunHandler creates a new run handler. Triggered runs use ctx, so they
// stop when the server shuts down.
func NewRunHandler(ctx context.Context, runner SyncRunner, logger *logrus.Logger) *RunHandler {
	return &RunHandler{
		runner: runner,
		ctx:    ctx,
		logger: logger,
	}
}

// Handle serves the run trigger endpoint
func (h *RunHandler) Handle(c *fiber.Ctx) error {
	if h.runner.IsRunning() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "running"})
	}

	h.logger.WithField("remote_addr", c.IP()).Info("Sync run triggered over HTTP")

	go func() {
		summary, err := h.runner.Run(h.ctx)
		switch {
		case errors.Is(err, controllers.ErrRunInProgress):
			h.logger.Info("Sync already running, ignoring trigger")
		case err != nil:
			h.logger.WithError(err).Error("Triggered sync failed")
		default:
			h.logger.WithFields(logrus.Fields{
				"run_id": summary.RunID,
				"added":  summary.Added(),
			}).Info("Triggered sync completed")
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started"})
}
