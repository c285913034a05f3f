// Package app assembles the sync engine and its serve-mode surfaces from a
// loaded configuration.
package app

import (
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/api"
	"github.com/amaumene/trendarr/internal/config"
	"github.com/amaumene/trendarr/internal/controllers"
	"github.com/amaumene/trendarr/internal/scheduler"
)

// Version is the build version reported in traces
type Version string

// App holds the assembled components
type App struct {
	Config    *config.Config
	Sync      *controllers.SyncController
	Scheduler *scheduler.Scheduler
	Server    *api.Server
	Logger    *logrus.Logger
}

// NewApp creates the application container
func NewApp(cfg *config.Config, syncCtrl *controllers.SyncController, sched *scheduler.Scheduler, server *api.Server, logger *logrus.Logger) *App {
	return &App{
		Config:    cfg,
		Sync:      syncCtrl,
		Scheduler: sched,
		Server:    server,
		Logger:    logger,
	}
}
