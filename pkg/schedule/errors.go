package schedule

import "errors"

var (
	ErrJobAlreadyRegistered = errors.New("schedule: job already registered")
	ErrNoJobs               = errors.New("schedule: no jobs registered")
	ErrInvalidJob           = errors.New("schedule: job requires a name, a schedule and a function")
	ErrInvalidClock         = errors.New("schedule: invalid clock time, expected HH:MM")
	ErrJobPanic             = errors.New("schedule: job panicked")
)
