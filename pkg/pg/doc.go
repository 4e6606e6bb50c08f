// Package pg connects to PostgreSQL with pgx/v5 and applies goose
// migrations.
//
// It backs the relational notification store: Connect opens a pool from
// PG_* environment variables with retries, Migrate applies the embedded
// schema, and Healthcheck returns a ping for readiness probes. The pool
// satisfies notifications.DBTX directly.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
//		return err
//	}
//	storage := notifications.NewPostgresStorage(pool)
package pg
