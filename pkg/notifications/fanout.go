package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/markmed/fleetman/pkg/async"
	"github.com/markmed/fleetman/pkg/dispatcher"
	"github.com/markmed/fleetman/pkg/logger"
)

// Emitter publishes events in process.
type Emitter interface {
	Emit(ctx context.Context, topic dispatcher.Topic, payload any)
}

// SecondaryChannel delivers an intent outside the real-time stream.
type SecondaryChannel interface {
	Send(ctx context.Context, intent Intent) error
}

// TaskRunner starts detached tasks. Satisfied by *async.Detacher.
type TaskRunner interface {
	Go(ctx context.Context, name string, fn func(context.Context) error)
}

// Fanout delivers intents to storage, the dispatcher and the secondary channel.
type Fanout struct {
	storage   Storage
	emitter   Emitter
	secondary SecondaryChannel
	runner    TaskRunner
	detacher  *async.Detacher // set when Fanout owns its runner
	logger    *slog.Logger
	now       func() time.Time
}

// FanoutOption configures a Fanout.
type FanoutOption func(*Fanout)

// WithSecondaryChannel enables the email step. Without it persisted intents
// are only stored and pushed.
func WithSecondaryChannel(ch SecondaryChannel) FanoutOption {
	return func(f *Fanout) { f.secondary = ch }
}

// WithTaskRunner replaces the internal detacher.
func WithTaskRunner(r TaskRunner) FanoutOption {
	return func(f *Fanout) {
		if r != nil {
			f.runner = r
		}
	}
}

func WithFanoutLogger(l *slog.Logger) FanoutOption {
	return func(f *Fanout) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithFanoutClock overrides time.Now for record and event timestamps.
func WithFanoutClock(now func() time.Time) FanoutOption {
	return func(f *Fanout) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFanout creates a Fanout. storage and emitter are required.
func NewFanout(storage Storage, emitter Emitter, opts ...FanoutOption) (*Fanout, error) {
	if storage == nil {
		return nil, ErrStorageRequired
	}
	if emitter == nil {
		return nil, ErrEmitterRequired
	}

	f := &Fanout{
		storage: storage,
		emitter: emitter,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(logger.Component("notifications"))
	if f.runner == nil {
		f.detacher = async.NewDetacher(async.WithLogger(f.logger))
		f.runner = f.detacher
	}
	return f, nil
}

// Deliver stores, emits and emails intent. It never fails from the caller's
// point of view: a storage failure is logged at error level and stops the
// delivery; everything after it is best effort.
func (f *Fanout) Deliver(ctx context.Context, intent Intent) {
	if !intent.Valid() {
		f.logger.ErrorContext(ctx, "notification dropped", logger.Error(ErrInvalidIntent))
		return
	}

	attrs := []any{
		logger.AccountID(intent.AccountID()),
		logger.SourceKind(string(intent.SourceKind())),
		slog.String("message_key", intent.MessageKey()),
	}

	now := f.now()
	persistence := intent.SourceKind().Persistence()

	id := EphemeralID
	if persistence == Persisted {
		storedID, err := f.storage.Save(ctx, intent.AccountID(), intent.Record(now))
		if err != nil {
			f.logger.ErrorContext(ctx, "store notification", append(attrs, logger.Error(err))...)
			return
		}
		id = storedID
	}

	f.emitter.Emit(ctx, dispatcher.TopicNotificationCreated, NewEvent(id, intent, now))

	if persistence != Persisted || f.secondary == nil {
		return
	}

	f.runner.Go(ctx, "notification-email", func(ctx context.Context) error {
		err := f.secondary.Send(ctx, intent)
		if IsSkip(err) {
			f.logger.DebugContext(ctx, "notification email skipped",
				append(attrs, logger.NotificationID(id), logger.Error(err))...)
			return nil
		}
		return err
	})
}

// Close waits for in-flight email tasks started by an internal detacher.
func (f *Fanout) Close(ctx context.Context) error {
	if f.detacher == nil {
		return nil
	}
	return f.detacher.Close(ctx)
}

// PushPublisher writes an event to every open connection of an account.
// Satisfied by *push.Registry.
type PushPublisher interface {
	Publish(ctx context.Context, accountID string, event any) int
}

// PushHandler forwards TopicNotificationCreated events to p.
func PushHandler(p PushPublisher) dispatcher.Handler {
	return func(ctx context.Context, payload any) error {
		ev, ok := payload.(Event)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedPayload, payload)
		}
		p.Publish(ctx, ev.AccountID, ev)
		return nil
	}
}
