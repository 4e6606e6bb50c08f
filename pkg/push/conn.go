package push

import (
	"sync"
	"time"
)

// Conn is a long-lived connection to one client device.
// Implementations serialize their own writes.
type Conn interface {
	// WriteEvent writes one data frame.
	WriteEvent(data []byte) error
	// WriteComment writes a frame that clients ignore.
	WriteComment(text string) error
	// Done is closed once the connection can no longer be written to.
	Done() <-chan struct{}
	// Close releases the connection. It is safe to call more than once.
	Close() error
}

// DeviceConnection is a Conn registered for an account.
type DeviceConnection struct {
	ID        string
	AccountID string
	OpenedAt  time.Time

	conn       Conn
	removed    chan struct{}
	removeOnce sync.Once
}

// Conn returns the underlying connection.
func (dc *DeviceConnection) Conn() Conn {
	return dc.conn
}

func (dc *DeviceConnection) markRemoved() {
	dc.removeOnce.Do(func() { close(dc.removed) })
}
