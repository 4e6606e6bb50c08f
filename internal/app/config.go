package app

import (
	"time"

	"github.com/markmed/fleetman/pkg/email"
	"github.com/markmed/fleetman/pkg/httpserver"
	"github.com/markmed/fleetman/pkg/maintenance"
	"github.com/markmed/fleetman/pkg/mongo"
	"github.com/markmed/fleetman/pkg/pg"
	"github.com/markmed/fleetman/pkg/push"
	"github.com/markmed/fleetman/pkg/ratelimit"
	"github.com/markmed/fleetman/pkg/redis"
)

// Notification storage backends accepted by NotificationsConfig.Store.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Service  string `env:"APP_SERVICE" envDefault:"fleetman"`
	LogLevel string `env:"LOG_LEVEL"` // overrides the level preset of Env

	HTTP          httpserver.Config
	Push          push.Config
	RateLimit     ratelimit.Config
	Email         email.Config
	Notifications NotificationsConfig
	I18n          I18nConfig
	Maintenance   maintenance.Config
	Mongo         mongo.Config
	Redis         redis.Config
	Postgres      pg.Config

	SchedulerEnabled bool `env:"MAINTENANCE_SCHEDULER_ENABLED" envDefault:"true"`
}

type NotificationsConfig struct {
	Store        string        `env:"NOTIFICATIONS_STORE" envDefault:"mongo"`
	EmailTimeout time.Duration `env:"NOTIFICATIONS_EMAIL_TIMEOUT" envDefault:"30s"`
	BaseURL      string        `env:"NOTIFICATIONS_BASE_URL"`
}

// I18nConfig selects the translation catalogs. An empty Dir uses the
// catalogs embedded in the binary.
type I18nConfig struct {
	Dir             string `env:"I18N_DIR"`
	DefaultLanguage string `env:"I18N_DEFAULT_LANGUAGE" envDefault:"en"`
}

func (c Config) usesMongo() bool {
	return c.Mongo.ConnectionURL != ""
}

func (c Config) usesRedis() bool {
	return c.RateLimit.Store == ratelimit.StoreRedis
}

func (c Config) usesPostgres() bool {
	return c.Notifications.Store == StorePostgres
}
