package async

import "errors"

var (
	ErrTimeout   = errors.New("async: timed out waiting for detached tasks")
	ErrClosed    = errors.New("async: detacher closed")
	ErrTaskPanic = errors.New("async: task panicked")
)
