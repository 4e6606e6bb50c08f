package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/markmed/fleetman/pkg/logger"
)

// Topic names a stream of events.
type Topic string

// TopicNotificationCreated carries a notifications.Event for every delivered intent.
const TopicNotificationCreated Topic = "notification-created"

// Handler processes a single emitted payload.
type Handler func(ctx context.Context, payload any) error

// HandlerID identifies a registration so it can be removed later.
type HandlerID uint64

type registration struct {
	id HandlerID
	fn Handler
}

// Dispatcher fans payloads out to handlers registered per topic.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Topic][]registration
	nextID   HandlerID
	closed   bool
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Topic][]registration),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(logger.Component("dispatcher"))
	return d
}

// Register appends h to the handlers of topic. Registering after Close
// returns a zero id and the handler is never called.
func (d *Dispatcher) Register(topic Topic, h Handler) HandlerID {
	if h == nil {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("register after close", logger.Topic(string(topic)), logger.Error(ErrClosed))
		return 0
	}

	d.nextID++
	d.handlers[topic] = append(d.handlers[topic], registration{id: d.nextID, fn: h})
	return d.nextID
}

// Unregister removes the handler with id from topic. It reports whether a
// handler was removed.
func (d *Dispatcher) Unregister(topic Topic, id HandlerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	regs := d.handlers[topic]
	for i, r := range regs {
		if r.id != id {
			continue
		}
		rest := make([]registration, 0, len(regs)-1)
		rest = append(rest, regs[:i]...)
		rest = append(rest, regs[i+1:]...)
		if len(rest) == 0 {
			delete(d.handlers, topic)
		} else {
			d.handlers[topic] = rest
		}
		return true
	}
	return false
}

// Emit runs every handler of topic in registration order on the calling
// goroutine. Handler errors and panics are logged and never propagated.
func (d *Dispatcher) Emit(ctx context.Context, topic Topic, payload any) {
	d.mu.RLock()
	regs := d.handlers[topic]
	d.mu.RUnlock()

	// regs is never mutated in place, so iterating outside the lock is safe.
	for _, r := range regs {
		if err := d.invoke(ctx, r.fn, payload); err != nil {
			d.logger.ErrorContext(ctx, "event handler failed",
				logger.Topic(string(topic)),
				slog.Uint64("handler_id", uint64(r.id)),
				logger.Error(err),
			)
		}
	}
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return h(ctx, payload)
}

// HandlerCount returns the number of handlers registered for topic.
func (d *Dispatcher) HandlerCount(topic Topic) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[topic])
}

// Close drops all handlers. Emit becomes a no-op and Register refuses new handlers.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.handlers = make(map[Topic][]registration)
	return nil
}
