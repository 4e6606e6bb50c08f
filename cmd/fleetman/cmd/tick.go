package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/markmed/fleetman/internal/app"
	"github.com/markmed/fleetman/pkg/logger"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run the maintenance accumulator once, for an external cron",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			// Let the detached emails of this run finish.
			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Notifications.EmailTimeout)
			defer cancel()
			if err := a.Close(closeCtx); err != nil {
				log.Error("shutdown", logger.Error(err))
			}
		}()

		report, err := a.Tick(ctx)
		if err != nil {
			return err
		}
		return report.Err()
	},
}
