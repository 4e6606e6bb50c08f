// Package maintenance accumulates machine operating hours against
// maintenance intervals and raises a maintenance-due event when an interval
// is reached.
//
// Scheduler.Tick is invoked once a day. It credits the hours of the
// previous calendar day, in the configured location, to every active alarm
// of every machine that operated on that day. When an alarm's accumulated
// hours reach its interval the scheduler emits a MaintenanceDue event and
// resets the alarm to zero; hours beyond the interval are discarded.
//
// Alarms are processed sequentially. A failure on one alarm is recorded in
// the returned Report and does not stop the batch.
//
//	s, _ := maintenance.NewScheduler(repo, maintenance.NewNotifier(fanout),
//		maintenance.WithLocation(loc),
//	)
//	report, err := s.Tick(ctx)
package maintenance
