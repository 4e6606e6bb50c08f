package async

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/markmed/fleetman/pkg/logger"
)

// Detacher starts detached tasks and tracks them until they finish.
// All methods are safe for concurrent use.
type Detacher struct {
	mu       sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
	inFlight atomic.Int64

	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Detacher.
type Option func(*Detacher)

func WithLogger(l *slog.Logger) Option {
	return func(d *Detacher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTaskTimeout bounds every task. Zero means no timeout.
func WithTaskTimeout(timeout time.Duration) Option {
	return func(d *Detacher) {
		if timeout >= 0 {
			d.timeout = timeout
		}
	}
}

// NewDetacher creates a Detacher.
func NewDetacher(opts ...Option) *Detacher {
	d := &Detacher{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Go runs fn in a new goroutine and returns immediately. The outcome is only
// observable through the log: errors are logged at warn level and panics at
// error level. After Close, fn is dropped.
func (d *Detacher) Go(ctx context.Context, name string, fn func(context.Context) error) {
	if fn == nil {
		return
	}

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		d.logger.WarnContext(ctx, "detached task dropped", slog.String("task", name), logger.Error(ErrClosed))
		return
	}
	d.wg.Add(1)
	d.inFlight.Add(1)
	d.mu.RUnlock()

	taskCtx := context.WithoutCancel(ctx)

	go func() {
		defer d.wg.Done()
		defer d.inFlight.Add(-1)

		ctx := taskCtx
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(taskCtx, d.timeout)
			defer cancel()
		}

		start := time.Now()
		err := run(ctx, fn)
		switch {
		case errors.Is(err, ErrTaskPanic):
			d.logger.ErrorContext(ctx, "detached task panicked",
				slog.String("task", name), logger.Duration(time.Since(start)), logger.Error(err))
		case err != nil:
			d.logger.WarnContext(ctx, "detached task failed",
				slog.String("task", name), logger.Duration(time.Since(start)), logger.Error(err))
		default:
			d.logger.DebugContext(ctx, "detached task finished",
				slog.String("task", name), logger.Duration(time.Since(start)))
		}
	}()
}

func run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return fn(ctx)
}

// InFlight returns the number of running tasks.
func (d *Detacher) InFlight() int {
	return int(d.inFlight.Load())
}

// Wait blocks until every started task has finished or ctx is done.
func (d *Detacher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %d still running: %w", ErrTimeout, d.InFlight(), ctx.Err())
	}
}

// Close stops accepting tasks and waits for the running ones.
func (d *Detacher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	return d.Wait(ctx)
}
