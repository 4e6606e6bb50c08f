package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markmed/fleetman/pkg/mongo"
)

func TestNew_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(context.Background(), mongo.Config{})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}

func TestNew_Unreachable(t *testing.T) {
	t.Parallel()

	cfg := mongo.Config{
		ConnectionURL:  "mongodb://127.0.0.1:1",
		ConnectTimeout: 100 * time.Millisecond,
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
	}

	_, err := mongo.New(context.Background(), cfg)
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}

func TestNew_ContextCancelledBetweenAttempts(t *testing.T) {
	t.Parallel()

	cfg := mongo.Config{
		ConnectionURL:  "mongodb://127.0.0.1:1",
		ConnectTimeout: 50 * time.Millisecond,
		RetryAttempts:  10,
		RetryInterval:  time.Hour,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := mongo.New(ctx, cfg)
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewWithDatabase(t *testing.T) {
	uri := os.Getenv("MONGODB_URL")
	if uri == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx := context.Background()
	db, err := mongo.NewWithDatabase(ctx, mongo.Config{
		ConnectionURL:  uri,
		Database:       "fleetman_test",
		ConnectTimeout: 5 * time.Second,
		RetryAttempts:  1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(context.Background()) })

	assert.Equal(t, "fleetman_test", db.Name())
	assert.NoError(t, mongo.Healthcheck(db.Client())(ctx))
}
