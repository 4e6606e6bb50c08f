// Package app wires the fleetman service: storage backends, the
// notification fan-out, the push registry and the maintenance scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/markmed/fleetman/internal/db/migrations"
	"github.com/markmed/fleetman/internal/locales"
	"github.com/markmed/fleetman/pkg/async"
	"github.com/markmed/fleetman/pkg/dispatcher"
	"github.com/markmed/fleetman/pkg/email"
	"github.com/markmed/fleetman/pkg/httpserver"
	"github.com/markmed/fleetman/pkg/i18n"
	"github.com/markmed/fleetman/pkg/logger"
	"github.com/markmed/fleetman/pkg/maintenance"
	"github.com/markmed/fleetman/pkg/mongo"
	"github.com/markmed/fleetman/pkg/notifications"
	"github.com/markmed/fleetman/pkg/pg"
	"github.com/markmed/fleetman/pkg/push"
	"github.com/markmed/fleetman/pkg/ratelimit"
	"github.com/markmed/fleetman/pkg/redis"
	"github.com/markmed/fleetman/pkg/requestid"
)

// App holds the wired components of one process.
type App struct {
	cfg Config
	log *slog.Logger

	registry   *push.Registry
	dispatcher *dispatcher.Dispatcher
	detacher   *async.Detacher
	fanout     *notifications.Fanout
	scheduler  *maintenance.Scheduler

	checks  []httpserver.Check
	closers []func(context.Context) error
}

// Option overrides a collaborator New would otherwise build from Config.
type Option func(*overrides)

type overrides struct {
	machines  maintenance.Repository
	directory notifications.RecipientDirectory
	storage   notifications.Storage
	sender    email.EmailSender
	schedOpts []maintenance.Option
}

// WithMachineRepository replaces the machine store.
func WithMachineRepository(r maintenance.Repository) Option {
	return func(o *overrides) { o.machines = r }
}

// WithRecipientDirectory replaces the account lookup used by the email channel.
func WithRecipientDirectory(d notifications.RecipientDirectory) Option {
	return func(o *overrides) { o.directory = d }
}

// WithStorage replaces the notification store.
func WithStorage(s notifications.Storage) Option {
	return func(o *overrides) { o.storage = s }
}

// WithEmailSender replaces the sender chosen from the email config.
func WithEmailSender(s email.EmailSender) Option {
	return func(o *overrides) { o.sender = s }
}

// WithSchedulerOptions passes extra options to the maintenance scheduler.
func WithSchedulerOptions(opts ...maintenance.Option) Option {
	return func(o *overrides) { o.schedOpts = append(o.schedOpts, opts...) }
}

// NewLogger builds the process logger. Records logged with a request
// context carry its request id.
func NewLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	return logger.New(opts...)
}

// New connects the configured backends and wires every component. On error
// everything opened so far is closed again.
func New(ctx context.Context, cfg Config, log *slog.Logger, opts ...Option) (_ *App, err error) {
	o := &overrides{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{cfg: cfg, log: logger.OrDefault(log)}
	defer func() {
		if err != nil {
			_ = a.Close(context.WithoutCancel(ctx))
		}
	}()

	var db *mongodriver.Database
	if cfg.usesMongo() {
		if db, err = mongo.NewWithDatabase(ctx, cfg.Mongo); err != nil {
			return nil, err
		}
		client := db.Client()
		a.addCheck("mongo", mongo.Healthcheck(client))
		a.closers = append(a.closers, client.Disconnect)
		a.log.InfoContext(ctx, "mongo connected", slog.String("database", cfg.Mongo.Database))
	}

	var rc goredis.UniversalClient
	if cfg.usesRedis() {
		var client *goredis.Client
		if client, err = redis.Connect(ctx, cfg.Redis); err != nil {
			return nil, err
		}
		rc = client
		a.addCheck("redis", redis.Healthcheck(client))
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	}

	storage := o.storage
	if storage == nil {
		if storage, err = a.openStorage(ctx, db); err != nil {
			return nil, err
		}
	}

	directory := o.directory
	if directory == nil {
		if db != nil {
			directory = notifications.NewMongoDirectory(db)
		} else {
			directory = notifications.NewStaticDirectory()
		}
	}

	machines := o.machines
	if machines == nil {
		if db != nil {
			repo := maintenance.NewMongoRepository(db)
			if err = repo.EnsureIndexes(ctx); err != nil {
				return nil, err
			}
			machines = repo
		} else {
			machines = maintenance.NewMemoryRepository()
		}
	}

	limiter, err := ratelimit.NewFromConfig(cfg.RateLimit, rc)
	if err != nil {
		return nil, err
	}

	sender := o.sender
	if sender == nil {
		if sender, err = email.NewFromConfig(cfg.Email); err != nil {
			return nil, err
		}
	}

	translator, err := loadTranslator(ctx, cfg.I18n, a.log)
	if err != nil {
		return nil, err
	}
	renderer := notifications.NewTemplateRenderer(translator, notifications.WithBaseURL(cfg.Notifications.BaseURL))

	channel, err := notifications.NewEmailChannel(directory, limiter, sender, renderer,
		notifications.WithEmailChannelLogger(a.log))
	if err != nil {
		return nil, err
	}

	a.registry = push.NewRegistry(
		push.WithLogger(a.log),
		push.WithKeepAliveInterval(cfg.Push.KeepAliveInterval),
	)
	a.dispatcher = dispatcher.New(dispatcher.WithLogger(a.log))
	a.dispatcher.Register(dispatcher.TopicNotificationCreated, notifications.PushHandler(a.registry))

	a.detacher = async.NewDetacher(
		async.WithLogger(a.log),
		async.WithTaskTimeout(cfg.Notifications.EmailTimeout),
	)

	a.fanout, err = notifications.NewFanout(storage, a.dispatcher,
		notifications.WithSecondaryChannel(channel),
		notifications.WithTaskRunner(a.detacher),
		notifications.WithFanoutLogger(a.log),
	)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Maintenance.Location()
	if err != nil {
		return nil, err
	}
	schedOpts := append([]maintenance.Option{
		maintenance.WithLocation(loc),
		maintenance.WithLogger(a.log.With(logger.Component("maintenance"))),
	}, o.schedOpts...)
	a.scheduler, err = maintenance.NewScheduler(machines, maintenance.NewNotifier(a.fanout), schedOpts...)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *App) openStorage(ctx context.Context, db *mongodriver.Database) (notifications.Storage, error) {
	switch a.cfg.Notifications.Store {
	case StoreMongo:
		if db == nil {
			return nil, ErrMongoRequired
		}
		s := notifications.NewMongoStorage(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case StorePostgres:
		pool, err := pg.Connect(ctx, a.cfg.Postgres)
		if err != nil {
			return nil, err
		}
		a.addCheck("postgres", pg.Healthcheck(pool))
		a.closers = append(a.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		if err := pg.Migrate(ctx, pool, migrations.FS, a.cfg.Postgres, a.log); err != nil {
			return nil, err
		}
		return notifications.NewPostgresStorage(pool), nil
	case StoreMemory:
		return notifications.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, a.cfg.Notifications.Store)
	}
}

func loadTranslator(ctx context.Context, cfg I18nConfig, log *slog.Logger) (*i18n.Translator, error) {
	var fsys fs.FS = locales.FS
	if cfg.Dir != "" {
		fsys = os.DirFS(cfg.Dir)
	}
	catalog, err := i18n.LoadFS(ctx, fsys)
	if err != nil {
		return nil, err
	}
	return i18n.NewTranslator(catalog,
		i18n.WithDefaultLanguage(cfg.DefaultLanguage),
		i18n.WithLogger(log),
		i18n.WithMissingTranslationsLogging(true),
	)
}

func (a *App) addCheck(name string, fn func(context.Context) error) {
	a.checks = append(a.checks, httpserver.Check{Name: name, Fn: fn})
}

// Fanout returns the notification entry point.
func (a *App) Fanout() *notifications.Fanout { return a.fanout }

// Registry returns the push connection registry.
func (a *App) Registry() *push.Registry { return a.registry }

// Tick runs the maintenance accumulator once.
func (a *App) Tick(ctx context.Context) (maintenance.Report, error) {
	return a.scheduler.Tick(ctx)
}

// Close tears the process down: open streams first, then in-flight email
// tasks, then the backends in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.registry != nil {
		errs = append(errs, a.registry.Close())
	}
	if a.detacher != nil {
		errs = append(errs, a.detacher.Close(ctx))
	}
	if a.dispatcher != nil {
		errs = append(errs, a.dispatcher.Close())
	}
	for _, c := range slices.Backward(a.closers) {
		errs = append(errs, c(ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
