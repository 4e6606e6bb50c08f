package maintenance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markmed/fleetman/pkg/maintenance"
	"github.com/markmed/fleetman/pkg/notifications"
)

type captureDeliverer struct {
	intents []notifications.Intent
}

func (c *captureDeliverer) Deliver(_ context.Context, intent notifications.Intent) {
	c.intents = append(c.intents, intent)
}

func TestNotifier_MaintenanceDue(t *testing.T) {
	t.Parallel()

	d := &captureDeliverer{}
	n := maintenance.NewNotifier(d)

	err := n.MaintenanceDue(context.Background(), maintenance.MaintenanceDue{
		MachineID:      "m-1",
		MachineName:    "CAT 320",
		OwnerAccountID: "acc-1",
		AlarmID:        "oil",
		AlarmTitle:     "Oil change",
		IntervalHours:  250,
		TimesTriggered: 4,
		TriggeredAt:    time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, d.intents, 1)

	intent := d.intents[0]
	assert.Equal(t, "acc-1", intent.AccountID())
	assert.Equal(t, notifications.CategoryWarning, intent.Category())
	assert.Equal(t, notifications.SourceMaintenance, intent.SourceKind())
	assert.Equal(t, maintenance.DueMessageKey, intent.MessageKey())
	assert.Equal(t, "/machines/m-1/maintenance", intent.ActionURL())
	assert.Equal(t, map[string]any{
		"machineId":      "m-1",
		"machineName":    "CAT 320",
		"alarmId":        "oil",
		"alarmTitle":     "Oil change",
		"intervalHours":  250,
		"timesTriggered": 4,
	}, intent.Metadata())
}

func TestNotifier_InvalidOwner(t *testing.T) {
	t.Parallel()

	d := &captureDeliverer{}
	err := maintenance.NewNotifier(d).MaintenanceDue(context.Background(), maintenance.MaintenanceDue{MachineID: "m-1"})
	assert.ErrorIs(t, err, notifications.ErrInvalidAccountID)
	assert.Empty(t, d.intents)
}

func TestNotifier_WithScheduler(t *testing.T) {
	t.Parallel()

	repo := maintenance.NewMemoryRepository(excavator(maintenance.Alarm{
		ID: "oil", Title: "Oil change", IntervalHours: 50, AccumulatedHours: 45, IsActive: true,
	}))
	d := &captureDeliverer{}

	report, err := newScheduler(t, repo, maintenance.NewNotifier(d)).Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.AlarmsTriggered)
	require.Len(t, d.intents, 1)
	assert.Equal(t, "acc-1", d.intents[0].AccountID())
}
