package cmd

import (
	"github.com/spf13/cobra"

	"github.com/markmed/fleetman/internal/db/migrations"
	"github.com/markmed/fleetman/pkg/pg"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the PostgreSQL notification schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log); err != nil {
			return err
		}
		log.InfoContext(ctx, "migrations applied")
		return nil
	},
}
