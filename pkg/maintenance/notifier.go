package maintenance

import (
	"context"
	"net/url"

	"github.com/markmed/fleetman/pkg/notifications"
)

// DueMessageKey is the translation key of maintenance-due notifications.
const DueMessageKey = "notifications.maintenance.due"

// Deliverer is implemented by notifications.Fanout.
type Deliverer interface {
	Deliver(ctx context.Context, intent notifications.Intent)
}

// Notifier turns maintenance-due events into notifications for the
// machine owner.
type Notifier struct {
	deliverer Deliverer
}

var _ EventCreator = (*Notifier)(nil)

func NewNotifier(d Deliverer) *Notifier {
	return &Notifier{deliverer: d}
}

// MaintenanceDue implements EventCreator. It fails only when the event
// cannot form a valid intent; delivery itself never reports errors.
func (n *Notifier) MaintenanceDue(ctx context.Context, ev MaintenanceDue) error {
	intent, err := notifications.NewIntent(notifications.IntentParams{
		AccountID:  ev.OwnerAccountID,
		Category:   notifications.CategoryWarning,
		MessageKey: DueMessageKey,
		ActionURL:  "/machines/" + url.PathEscape(ev.MachineID) + "/maintenance",
		SourceKind: notifications.SourceMaintenance,
		Metadata: map[string]any{
			"machineId":      ev.MachineID,
			"machineName":    ev.MachineName,
			"alarmId":        ev.AlarmID,
			"alarmTitle":     ev.AlarmTitle,
			"intervalHours":  ev.IntervalHours,
			"timesTriggered": ev.TimesTriggered,
		},
	})
	if err != nil {
		return err
	}
	n.deliverer.Deliver(ctx, intent)
	return nil
}
