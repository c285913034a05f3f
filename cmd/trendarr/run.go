package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amaumene/trendarr/internal/app"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one sync pass and print its summary",
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

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := application.Sync.Run(runCtx)
			if summary != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderSummary(summary, shouldColorize(out)))
			}
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Resolve items without writing to the watchlist")
	_ = ctx.v.BindPFlag("DRY_RUN", cmd.Flags().Lookup("dry-run"))

	return cmd
}
