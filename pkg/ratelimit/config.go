package ratelimit

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store backends accepted by Config.Store.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config configures the email channel limiter.
type Config struct {
	MaxPerWindow int           `env:"RATELIMIT_MAX_PER_WINDOW" envDefault:"5"`
	Window       time.Duration `env:"RATELIMIT_WINDOW" envDefault:"1h"`
	Store        string        `env:"RATELIMIT_STORE" envDefault:"memory"`
	KeyPrefix    string        `env:"RATELIMIT_KEY_PREFIX" envDefault:"ratelimit:email:"`
}

// NewFromConfig builds a SlidingWindow with the configured store. client is
// only used, and then required, for the redis store.
func NewFromConfig(cfg Config, client redis.UniversalClient, opts ...Option) (*SlidingWindow, error) {
	var store Store
	switch cfg.Store {
	case StoreMemory, "":
		store = NewMemoryStore()
	case StoreRedis:
		rs, err := NewRedisStore(client, WithKeyPrefix(cfg.KeyPrefix))
		if err != nil {
			return nil, err
		}
		store = rs
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}
	return NewSlidingWindow(store, cfg.MaxPerWindow, cfg.Window, opts...)
}
