package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markmed/fleetman/internal/app"
	"github.com/markmed/fleetman/pkg/config"
	"github.com/markmed/fleetman/pkg/logger"
)

var (
	// envFiles are loaded before the configuration is parsed. Later files win;
	// variables already set in the process environment are kept.
	envFiles []string

	rootCmd = &cobra.Command{
		Use:           "fleetman",
		Short:         "Fleet notifications and maintenance accumulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if len(envFiles) == 0 {
				return nil
			}
			return config.LoadEnv(envFiles...)
		},
	}
)

// Execute runs the CLI and exits with non-zero status on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	rootCmd.AddCommand(serveCmd, tickCmd, migrateCmd)
}

// loadConfig parses the process configuration and installs the default logger.
func loadConfig() (app.Config, *slog.Logger, error) {
	var cfg app.Config
	if err := config.Load(&cfg); err != nil {
		return app.Config{}, nil, err
	}
	log := app.NewLogger(cfg)
	logger.SetAsDefault(log)
	return cfg, log, nil
}
