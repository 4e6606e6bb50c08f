package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/markmed/fleetman/pkg/logger"
)

// Job is the work run on each tick of a schedule.
type Job func(ctx context.Context) error

// Runner runs registered jobs when they are due.
type Runner struct {
	mu       sync.RWMutex
	jobs     map[string]*job
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

type job struct {
	name     string
	schedule Schedule
	fn       Job
	next     time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithCheckInterval sets how often the runner checks for due jobs.
func WithCheckInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		jobs:     make(map[string]*job),
		interval: 30 * time.Second,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddJob registers fn under name. Its first run is the schedule's next
// time after registration.
func (r *Runner) AddJob(name string, s Schedule, fn Job) error {
	if name == "" || s == nil || fn == nil {
		return ErrInvalidJob
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRegistered, name)
	}
	j := &job{name: name, schedule: s, fn: fn, next: s.Next(r.now())}
	r.jobs[name] = j

	r.logger.Info("registered periodic job",
		slog.String("job", name),
		slog.String("schedule", s.String()),
		slog.Time("next_run", j.next))
	return nil
}

// RemoveJob unregisters name.
func (r *Runner) RemoveJob(name string) {
	r.mu.Lock()
	delete(r.jobs, name)
	r.mu.Unlock()
}

// Jobs returns the registered job names in lexical order.
func (r *Runner) Jobs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextRun returns when name runs next.
func (r *Runner) NextRun(name string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[name]
	if !ok {
		return time.Time{}, false
	}
	return j.next, true
}

// Start checks for due jobs every check interval until ctx is done.
func (r *Runner) Start(ctx context.Context) error {
	if len(r.Jobs()) == 0 {
		return ErrNoJobs
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunDue(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("schedule runner shutting down")
			return ctx.Err()
		case <-ticker.C:
			r.RunDue(ctx)
		}
	}
}

// RunDue runs every job whose next run time is not after now and returns
// how many ran.
func (r *Runner) RunDue(ctx context.Context) int {
	now := r.now()

	r.mu.Lock()
	due := make([]*job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if !j.next.After(now) {
			due = append(due, j)
			j.next = j.schedule.Next(now)
		}
	}
	r.mu.Unlock()

	sort.Slice(due, func(a, b int) bool { return due[a].name < due[b].name })
	for _, j := range due {
		if ctx.Err() != nil {
			break
		}
		r.run(ctx, j)
	}
	return len(due)
}

func (r *Runner) run(ctx context.Context, j *job) {
	start := r.now()
	log := r.logger.With(slog.String("job", j.name))

	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", ErrJobPanic, p)
			}
		}()
		return j.fn(ctx)
	}()

	elapsed := r.now().Sub(start)
	if err != nil {
		log.ErrorContext(ctx, "periodic job failed", logger.Error(err), logger.Duration(elapsed))
		return
	}
	log.InfoContext(ctx, "periodic job completed", logger.Duration(elapsed))
}
