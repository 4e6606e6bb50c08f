package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/markmed/fleetman/internal/app"
	"github.com/markmed/fleetman/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve notification streams and run the daily maintenance tick",
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
			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout+cfg.Notifications.EmailTimeout)
			defer cancel()
			if err := a.Close(closeCtx); err != nil {
				log.Error("shutdown", logger.Error(err))
			}
		}()

		return a.Serve(ctx)
	},
}
