package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amaumene/trendarr/internal/app"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run sync passes on a schedule and serve status and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := ctx.setup()
			if err != nil {
				return err
			}
			defer closeLog()

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			application, cleanup, err := app.InitializeApp(cfg, logger, app.Version(version))
			if err != nil {
				return err
			}
			defer cleanup()

			serveCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.Scheduler.Start(serveCtx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			defer application.Scheduler.Stop()

			logger.WithField("version", version).Info("Trendarr is running")

			if err := application.Server.Start(serveCtx); err != nil {
				return err
			}

			logger.Info("Trendarr stopped")
			return nil
		},
	}
}
