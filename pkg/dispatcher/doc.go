// Package dispatcher provides an in-process topic dispatcher.
//
// Handlers registered for a topic run synchronously, in registration order,
// every time the topic is emitted. A handler that returns an error or panics
// is logged and the remaining handlers still run. Emitting a topic without
// handlers is a no-op. There is no queueing and no replay of missed events.
//
// Basic usage:
//
//	d := dispatcher.New(dispatcher.WithLogger(log))
//	id := d.Register(dispatcher.TopicNotificationCreated, func(ctx context.Context, payload any) error {
//		return nil
//	})
//	defer d.Unregister(dispatcher.TopicNotificationCreated, id)
//
//	d.Emit(ctx, dispatcher.TopicNotificationCreated, event)
package dispatcher
