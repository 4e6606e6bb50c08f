package maintenance_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/markmed/fleetman/pkg/maintenance"
)

func TestMemoryRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := maintenance.NewMemoryRepository(excavator(maintenance.Alarm{ID: "oil", IntervalHours: 50, IsActive: true}))
	repo.Put(maintenance.Machine{ID: "m-0", OperatingDays: []time.Weekday{time.Wednesday}})

	machines, err := repo.FindEligibleForDay(ctx, time.Wednesday)
	require.NoError(t, err)
	require.Len(t, machines, 2)
	assert.Equal(t, "m-0", machines[0].ID)
	assert.Equal(t, "m-1", machines[1].ID)

	machines[1].Alarms[0].AccumulatedHours = 999
	stored, _ := repo.Machine("m-1")
	assert.Equal(t, 0, stored.Alarms[0].AccumulatedHours, "results are copies")

	none, err := repo.FindEligibleForDay(ctx, time.Sunday)
	require.NoError(t, err)
	assert.Empty(t, none)

	at := time.Now()
	require.NoError(t, repo.SaveAlarm(ctx, "m-1", maintenance.Alarm{
		ID: "oil", IntervalHours: 1, AccumulatedHours: 0, LastTriggeredAt: &at, TimesTriggered: 1,
	}))
	stored, _ = repo.Machine("m-1")
	assert.Equal(t, 50, stored.Alarms[0].IntervalHours, "interval is not owned by the scheduler")
	assert.Equal(t, 1, stored.Alarms[0].TimesTriggered)
	require.NotNil(t, stored.Alarms[0].LastTriggeredAt)

	assert.ErrorIs(t, repo.SaveAlarm(ctx, "m-1", maintenance.Alarm{ID: "missing"}), maintenance.ErrAlarmNotFound)
	assert.ErrorIs(t, repo.SaveAlarm(ctx, "m-9", maintenance.Alarm{ID: "oil"}), maintenance.ErrAlarmNotFound)
}

func TestMongoRepository(t *testing.T) {
	uri := os.Getenv("MONGODB_URL")
	if uri == "" {
		t.Skip("MONGODB_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("fleetman_maintenance_" + time.Now().Format("150405"))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	repo := maintenance.NewMongoRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))
	require.NoError(t, repo.Insert(ctx, excavator(maintenance.Alarm{
		ID: "oil", Title: "Oil change", IntervalHours: 50, AccumulatedHours: 45, IsActive: true,
	})))

	s := newScheduler(t, repo, &recordingEvents{})
	report, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AlarmsTriggered)

	machines, err := repo.FindEligibleForDay(ctx, time.Wednesday)
	require.NoError(t, err)
	require.Len(t, machines, 1)
	alarm := machines[0].Alarms[0]
	assert.Equal(t, 0, alarm.AccumulatedHours)
	assert.Equal(t, 1, alarm.TimesTriggered)
	require.NotNil(t, alarm.LastTriggeredAt)
	assert.True(t, tickAt.Equal(*alarm.LastTriggeredAt))

	err = repo.SaveAlarm(ctx, "m-1", maintenance.Alarm{ID: "missing"})
	assert.ErrorIs(t, err, maintenance.ErrAlarmNotFound)
}

func TestConfig(t *testing.T) {
	t.Parallel()

	s, err := maintenance.Config{Timezone: "UTC", RunAt: "00:30"}.Schedule()
	require.NoError(t, err)
	from := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 4, 3, 0, 30, 0, 0, time.UTC), s.Next(from))

	_, err = maintenance.Config{Timezone: "Mars/Olympus", RunAt: "00:30"}.Schedule()
	assert.ErrorIs(t, err, maintenance.ErrInvalidTimezone)

	_, err = maintenance.Config{Timezone: "UTC", RunAt: "noon"}.Schedule()
	assert.Error(t, err)
}
