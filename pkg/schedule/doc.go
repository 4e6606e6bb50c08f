// Package schedule runs in-process periodic jobs.
//
// A Schedule computes the next run time from a given instant. Interval,
// hourly and daily schedules are provided; daily schedules are evaluated in
// a configurable time zone so that "00:30" means local midnight-thirty for
// the fleet rather than for the host.
//
// Runner polls its registered jobs at a fixed check interval and runs every
// job whose next run time has passed. Jobs run one after another on the
// runner goroutine; a failing or panicking job is logged and scheduled again.
//
//	r := schedule.NewRunner(schedule.WithLogger(log))
//	_ = r.AddJob("maintenance-tick", schedule.DailyAt(0, 30, loc), func(ctx context.Context) error {
//		_, err := scheduler.Tick(ctx)
//		return err
//	})
//	err := r.Start(ctx) // blocks until ctx is done
package schedule
