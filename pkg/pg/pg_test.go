package pg_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markmed/fleetman/internal/db/migrations"
	"github.com/markmed/fleetman/pkg/logger"
	"github.com/markmed/fleetman/pkg/notifications"
	"github.com/markmed/fleetman/pkg/pg"
)

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := pg.Connect(ctx, pg.Config{
		ConnectionString: "postgres://fleetman@127.0.0.1:1/fleetman?connect_timeout=1",
		RetryAttempts:    2,
		RetryInterval:    10 * time.Millisecond,
	})
	assert.ErrorIs(t, err, pg.ErrFailedToOpenDBConnection)
}

func TestMigrate_NilFS(t *testing.T) {
	t.Parallel()

	err := pg.Migrate(context.Background(), nil, nil, pg.Config{}, logger.Discard())
	assert.ErrorIs(t, err, pg.ErrMigrationsNotProvided)
}

func TestMigrateAndStore(t *testing.T) {
	url := os.Getenv("PG_CONN_URL")
	if url == "" {
		t.Skip("PG_CONN_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{ConnectionString: url, RetryAttempts: 1, MigrationsTable: "schema_migrations"}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, migrations.FS, cfg, logger.Discard()))
	require.NoError(t, pg.Healthcheck(pool)(ctx))

	intent, err := notifications.NewIntent(notifications.IntentParams{
		AccountID:  "acc-pg",
		Category:   notifications.CategoryInfo,
		MessageKey: "notifications.system.welcome",
		SourceKind: notifications.SourceSystem,
		Metadata:   map[string]any{"plan": "fleet"},
	})
	require.NoError(t, err)

	id, err := notifications.NewPostgresStorage(pool).Save(ctx, "acc-pg", intent.Record(time.Now()))
	require.NoError(t, err)

	var key string
	require.NoError(t, pool.QueryRow(ctx, "SELECT message_key FROM notifications WHERE id = $1", id).Scan(&key))
	assert.Equal(t, "notifications.system.welcome", key)
}
