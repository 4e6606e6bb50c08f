package push

import (
	"bytes"
	"errors"
	"net/http"
	"sync"
	"time"
)

// StreamConn writes server-sent events to an http.ResponseWriter.
// Every frame is flushed immediately and bounded by a write deadline.
type StreamConn struct {
	w            http.ResponseWriter
	rc           *http.ResponseController
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

var _ Conn = (*StreamConn)(nil)

// NewStreamConn writes the event-stream response headers and returns a
// connection ready for frames. A zero writeTimeout disables write deadlines.
func NewStreamConn(w http.ResponseWriter, writeTimeout time.Duration) (*StreamConn, error) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	c := &StreamConn{
		w:            w,
		rc:           http.NewResponseController(w),
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
	if err := c.rc.Flush(); err != nil {
		return nil, errors.Join(ErrStreamingUnsupported, err)
	}
	return c, nil
}

// WriteEvent writes data as one event. Multi-line payloads are split into
// several data fields, which clients join back with newlines.
func (c *StreamConn) WriteEvent(data []byte) error {
	var buf bytes.Buffer
	for line := range bytes.SplitSeq(data, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return c.write(buf.Bytes())
}

// WriteComment writes a comment frame. Clients ignore it.
func (c *StreamConn) WriteComment(text string) error {
	return c.write([]byte(": " + text + "\n\n"))
}

func (c *StreamConn) write(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	if c.writeTimeout > 0 {
		if err := c.rc.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
	}
	if _, err := c.w.Write(frame); err != nil {
		return err
	}
	return c.rc.Flush()
}

// Done is closed by Close.
func (c *StreamConn) Done() <-chan struct{} {
	return c.done
}

// Close stops further writes. The owning handler returns once Done is closed.
func (c *StreamConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}
