package dispatcher

import "errors"

var (
	// ErrHandlerPanic wraps a value recovered from a panicking handler.
	ErrHandlerPanic = errors.New("dispatcher: handler panicked")
	// ErrClosed is returned by Register after Close.
	ErrClosed = errors.New("dispatcher: closed")
)
