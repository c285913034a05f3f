package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amaumene/trendarr/internal/config"
	"github.com/amaumene/trendarr/internal/utils"
)

// commandContext carries the configuration source shared by all commands
type commandContext struct {
	v *viper.Viper
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "trendarr",
		Short:         "Add trending movies and shows to your watchlist",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("config-dir", "", "Configuration directory (default ~/.config/trendarr)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	_ = ctx.v.BindPFlag("CONFIG_DIR", rootCmd.PersistentFlags().Lookup("config-dir"))
	_ = ctx.v.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newAuthCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// setup loads the configuration and creates the logger. The returned
// function closes the log file.
func (c *commandContext) setup() (*config.Config, *logrus.Logger, func(), error) {
	cfg, err := config.Load(c.v)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, closeLog := utils.NewLogger(cfg.LogLevel, cfg.LogFile, cfg.LogMaxAgeDays)
	logger.WithFields(logrus.Fields{
		"config_dir": cfg.ConfigDir,
		"provider":   cfg.WatchlistProvider,
		"dry_run":    cfg.DryRun,
	}).Debug("Configuration loaded")

	return cfg, logger, closeLog, nil
}
