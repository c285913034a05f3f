package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/models"
)

// SyncRunner is the part of the sync controller the API needs
type SyncRunner interface {
	Run(ctx context.Context) (*models.RunSummary, error)
	LastSummary() *models.RunSummary
	IsRunning() bool
}

// StatusHandler reports the state of the last run
type StatusHandler struct {
	runner SyncRunner
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(runner SyncRunner, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		runner: runner,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Running    bool               `json:"running"`
	LastRun    *models.RunSummary `json:"last_run"`
	Added      int                `json:"added"`
	Skipped    int                `json:"skipped"`
	Unresolved int                `json:"unresolved"`
	Failed     int                `json:"failed"`
}

// Handle serves the status endpoint
func (h *StatusHandler) Handle(c *fiber.Ctx) error {
	response := StatusResponse{
		Running: h.runner.IsRunning(),
		LastRun: h.runner.LastSummary(),
	}

	if last := response.LastRun; last != nil {
		response.Added = last.Added()
		response.Skipped = last.Skipped()
		response.Unresolved = last.Unresolved()
		response.Failed = last.Failed()
	}

	return c.JSON(response)
}
