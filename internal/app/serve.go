package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/markmed/fleetman/pkg/httpserver"
	"github.com/markmed/fleetman/pkg/logger"
	"github.com/markmed/fleetman/pkg/schedule"
)

// TickJob is the name of the daily maintenance job.
const TickJob = "maintenance-tick"

// Serve runs the HTTP server, the keep-alive loop and, when enabled, the
// daily maintenance tick until ctx is done or one of them fails.
func (a *App) Serve(ctx context.Context) error {
	srv := httpserver.NewFromConfig(a.cfg.HTTP, httpserver.WithLogger(a.log))

	runner, err := a.newRunner()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, a.Handler())
	})
	g.Go(func() error {
		return ignoreCanceled(a.registry.RunKeepAlive(ctx))
	})
	if runner != nil {
		g.Go(func() error {
			return ignoreCanceled(runner.Start(ctx))
		})
	}
	return g.Wait()
}

func (a *App) newRunner() (*schedule.Runner, error) {
	if !a.cfg.SchedulerEnabled {
		a.log.Info("maintenance scheduler disabled")
		return nil, nil
	}
	sched, err := a.cfg.Maintenance.Schedule()
	if err != nil {
		return nil, err
	}

	runner := schedule.NewRunner(schedule.WithLogger(a.log.With(logger.Component("schedule"))))
	if err := runner.AddJob(TickJob, sched, func(ctx context.Context) error {
		_, err := a.Tick(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	return runner, nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
