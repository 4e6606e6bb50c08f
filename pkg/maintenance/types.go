package maintenance

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Alarm tracks operating hours toward one maintenance interval.
type Alarm struct {
	ID               string
	Title            string
	IntervalHours    int
	AccumulatedHours int
	IsActive         bool
	LastTriggeredAt  *time.Time
	TimesTriggered   int
}

// Validate checks the alarm invariants.
func (a Alarm) Validate() error {
	switch {
	case strings.TrimSpace(a.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidAlarm)
	case a.IntervalHours <= 0:
		return fmt.Errorf("%w: %s: interval must be positive, got %d", ErrInvalidAlarm, a.ID, a.IntervalHours)
	case a.AccumulatedHours < 0:
		return fmt.Errorf("%w: %s: negative accumulated hours", ErrInvalidAlarm, a.ID)
	case a.TimesTriggered < 0:
		return fmt.Errorf("%w: %s: negative trigger count", ErrInvalidAlarm, a.ID)
	}
	return nil
}

// Advance credits hours to the alarm. When the interval is reached the
// returned alarm is reset to zero with the trigger recorded at now.
func (a Alarm) Advance(hours int, now time.Time) (Alarm, bool) {
	next := a
	accumulated := a.AccumulatedHours + hours
	if accumulated < a.IntervalHours {
		next.AccumulatedHours = accumulated
		return next, false
	}

	at := now
	next.AccumulatedHours = 0
	next.LastTriggeredAt = &at
	next.TimesTriggered = a.TimesTriggered + 1
	return next, true
}

// Machine is the part of a machine aggregate the scheduler reads.
type Machine struct {
	ID             string
	OwnerAccountID string
	Name           string
	DailyHours     int
	OperatingDays  []time.Weekday
	Alarms         []Alarm
}

// OperatesOn reports whether day is one of the machine's operating days.
func (m Machine) OperatesOn(day time.Weekday) bool {
	return slices.Contains(m.OperatingDays, day)
}

// Validate checks the fields the scheduler depends on.
func (m Machine) Validate() error {
	switch {
	case strings.TrimSpace(m.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidMachine)
	case m.DailyHours < 0:
		return fmt.Errorf("%w: %s: negative daily hours", ErrInvalidMachine, m.ID)
	}
	return nil
}

// MaintenanceDue is raised when an alarm reaches its interval.
type MaintenanceDue struct {
	MachineID      string
	MachineName    string
	OwnerAccountID string
	AlarmID        string
	AlarmTitle     string
	IntervalHours  int
	TimesTriggered int
	TriggeredAt    time.Time
}

// Repository loads machines and persists the scheduler-owned alarm fields.
type Repository interface {
	// FindEligibleForDay returns the machines whose operating days include day.
	FindEligibleForDay(ctx context.Context, day time.Weekday) ([]Machine, error)

	// SaveAlarm stores AccumulatedHours, LastTriggeredAt and TimesTriggered
	// of alarm on machineID. Returns ErrAlarmNotFound when the alarm is gone.
	SaveAlarm(ctx context.Context, machineID string, alarm Alarm) error
}

// EventCreator receives maintenance-due events.
type EventCreator interface {
	MaintenanceDue(ctx context.Context, ev MaintenanceDue) error
}

// EventCreatorFunc adapts a function to EventCreator.
type EventCreatorFunc func(ctx context.Context, ev MaintenanceDue) error

func (f EventCreatorFunc) MaintenanceDue(ctx context.Context, ev MaintenanceDue) error {
	return f(ctx, ev)
}

// PreviousDay returns the weekday before now in loc.
func PreviousDay(now time.Time, loc *time.Location) time.Weekday {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).AddDate(0, 0, -1).Weekday()
}
