package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amaumene/trendarr/internal/services/trakt"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with a watchlist provider",
	}

	authCmd.AddCommand(&cobra.Command{
		Use:   "trakt",
		Short: "Log in to Trakt with a device code and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := ctx.setup()
			if err != nil {
				return err
			}
			defer closeLog()

			if err := cfg.ValidateTrakt(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			client, err := trakt.NewClient(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize Trakt client: %w", err)
			}

			authCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			prompt := func(verificationURL, userCode string) {
				fmt.Fprintf(out, "Open %s and enter the code %s\n", verificationURL, userCode)
			}
			if err := client.Authenticate(authCtx, prompt); err != nil {
				return fmt.Errorf("failed to authenticate with Trakt: %w", err)
			}

			fmt.Fprintf(out, "Token saved to %s\n", cfg.TokenFile)
			return nil
		},
	})

	return authCmd
}
