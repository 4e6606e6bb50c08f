// Package notifications turns notification intents into stored records,
// real-time push events and rate-limited emails.
//
// A feature describes what to tell an account with an Intent. Fanout.Deliver
// then:
//
//  1. stores the intent through Storage unless its SourceKind is ephemeral
//     (messaging content already lives in the message store); a storage
//     failure is logged and ends the delivery;
//  2. emits dispatcher.TopicNotificationCreated with the wire Event, whose id
//     is the stored id or EphemeralID;
//  3. for persisted kinds, starts a detached email task that looks up the
//     recipient, honours the email opt-out (opted in by default), asks the
//     rate limiter and sends the rendered message.
//
// Deliver never returns an error. Everything after storage is best effort and
// only observable through logs.
//
// Wiring:
//
//	d := dispatcher.New()
//	d.Register(dispatcher.TopicNotificationCreated, notifications.PushHandler(registry))
//
//	channel, _ := notifications.NewEmailChannel(directory, limiter, sender, renderer)
//	fanout, _ := notifications.NewFanout(storage, d, notifications.WithSecondaryChannel(channel))
//
//	intent, err := notifications.NewIntent(notifications.IntentParams{
//		AccountID:  ownerID,
//		Category:   notifications.CategoryWarning,
//		MessageKey: "notifications.maintenance.due",
//		SourceKind: notifications.SourceMaintenance,
//	})
//	if err != nil {
//		return err
//	}
//	fanout.Deliver(ctx, intent)
package notifications
