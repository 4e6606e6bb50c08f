package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/markmed/fleetman/pkg/logger"
)

// Scheduler advances maintenance alarms once per tick.
type Scheduler struct {
	repo   Repository
	events EventCreator
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocation sets the location used to find the previous calendar day.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewScheduler(repo Repository, events EventCreator, opts ...Option) (*Scheduler, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if events == nil {
		return nil, ErrEventCreatorMissing
	}

	s := &Scheduler{
		repo:   repo,
		events: events,
		loc:    time.UTC,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tick credits the previous day's operating hours to every active alarm of
// every machine that operated on that day.
//
// A trigger emits the maintenance-due event before the reset is saved; if
// the event cannot be created the alarm is left unchanged and retried on
// the next tick. Per-alarm failures are collected in the report. The
// returned error is non-nil only when the machines cannot be loaded or ctx
// is cancelled mid-batch.
func (s *Scheduler) Tick(ctx context.Context) (Report, error) {
	start := s.now()
	report := Report{
		Day:       PreviousDay(start, s.loc),
		StartedAt: start,
	}
	log := s.logger.With(logger.RunID(uuid.NewString()), slog.String("day", report.Day.String()))

	machines, err := s.repo.FindEligibleForDay(ctx, report.Day)
	if err != nil {
		report.Duration = s.now().Sub(start)
		log.ErrorContext(ctx, "maintenance tick aborted", logger.Error(err))
		return report, fmt.Errorf("%w: %w", ErrFindMachines, err)
	}

	for _, m := range machines {
		report.MachinesChecked++
		for _, a := range m.Alarms {
			if !a.IsActive {
				continue
			}
			if err := ctx.Err(); err != nil {
				report.Duration = s.now().Sub(start)
				return report, err
			}

			report.AlarmsChecked++
			triggered, err := s.process(ctx, m, a, start)
			if err != nil {
				report.Errors = append(report.Errors, AlarmError{MachineID: m.ID, AlarmID: a.ID, Err: err})
				log.WarnContext(ctx, "maintenance alarm failed",
					logger.MachineID(m.ID), logger.AlarmID(a.ID), logger.Error(err))
				continue
			}
			if triggered {
				report.AlarmsTriggered++
				log.InfoContext(ctx, "maintenance alarm triggered",
					logger.MachineID(m.ID), logger.AlarmID(a.ID))
			}
		}
	}

	report.Duration = s.now().Sub(start)
	log.InfoContext(ctx, "maintenance tick completed",
		slog.Int("machines", report.MachinesChecked),
		slog.Int("alarms_checked", report.AlarmsChecked),
		slog.Int("alarms_triggered", report.AlarmsTriggered),
		slog.Int("errors", len(report.Errors)),
		logger.Duration(report.Duration),
	)
	return report, nil
}

func (s *Scheduler) process(ctx context.Context, m Machine, a Alarm, now time.Time) (triggered bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			triggered = false
			err = fmt.Errorf("%w: %v", ErrAlarmPanic, p)
		}
	}()

	if err := m.Validate(); err != nil {
		return false, err
	}
	if err := a.Validate(); err != nil {
		return false, err
	}

	next, triggered := a.Advance(m.DailyHours, now)
	if triggered {
		ev := MaintenanceDue{
			MachineID:      m.ID,
			MachineName:    m.Name,
			OwnerAccountID: m.OwnerAccountID,
			AlarmID:        a.ID,
			AlarmTitle:     a.Title,
			IntervalHours:  a.IntervalHours,
			TimesTriggered: next.TimesTriggered,
			TriggeredAt:    now,
		}
		if err := s.events.MaintenanceDue(ctx, ev); err != nil {
			return false, fmt.Errorf("%w: %w", ErrEmitFailed, err)
		}
	}

	if err := s.repo.SaveAlarm(ctx, m.ID, next); err != nil {
		return false, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return triggered, nil
}
