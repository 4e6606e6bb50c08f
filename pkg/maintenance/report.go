package maintenance

import (
	"errors"
	"fmt"
	"time"
)

// AlarmError is a failure on one machine/alarm pair.
type AlarmError struct {
	MachineID string
	AlarmID   string
	Err       error
}

func (e AlarmError) Error() string {
	return fmt.Sprintf("machine %s alarm %s: %v", e.MachineID, e.AlarmID, e.Err)
}

func (e AlarmError) Unwrap() error { return e.Err }

// Report summarizes one tick. Inactive alarms are not counted.
type Report struct {
	Day             time.Weekday
	StartedAt       time.Time
	Duration        time.Duration
	MachinesChecked int
	AlarmsChecked   int
	AlarmsTriggered int
	Errors          []AlarmError
}

// Failed reports whether any alarm failed.
func (r Report) Failed() bool {
	return len(r.Errors) > 0
}

// Err joins the per-alarm errors, or returns nil.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
