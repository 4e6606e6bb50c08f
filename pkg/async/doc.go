// Package async runs detached tasks.
//
// A detached task is work whose result nobody waits for: Go starts it and
// returns immediately, without a result or an error. A failing or panicking
// task is logged and otherwise forgotten. The task's context keeps the
// values of the caller's context but not its cancellation, so the task
// outlives the request that started it. An optional per-task timeout bounds
// it instead.
//
// Wait drains the tasks still running, which lets a process finish in-flight
// work during shutdown:
//
//	d := async.NewDetacher(async.WithLogger(log), async.WithTaskTimeout(30*time.Second))
//
//	d.Go(ctx, "send-email", func(ctx context.Context) error {
//		return sender.SendEmail(ctx, params)
//	})
//
//	// on shutdown
//	_ = d.Close(shutdownCtx)
package async
