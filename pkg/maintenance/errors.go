package maintenance

import "errors"

var (
	ErrInvalidAlarm        = errors.New("maintenance: invalid alarm")
	ErrInvalidMachine      = errors.New("maintenance: invalid machine")
	ErrAlarmNotFound       = errors.New("maintenance: alarm not found")
	ErrRepositoryRequired  = errors.New("maintenance: repository is required")
	ErrEventCreatorMissing = errors.New("maintenance: event creator is required")
	ErrFindMachines        = errors.New("maintenance: failed to load eligible machines")
	ErrEmitFailed          = errors.New("maintenance: failed to emit maintenance-due event")
	ErrSaveFailed          = errors.New("maintenance: failed to save alarm")
	ErrAlarmPanic          = errors.New("maintenance: alarm processing panicked")
	ErrInvalidTimezone     = errors.New("maintenance: invalid timezone")
)
