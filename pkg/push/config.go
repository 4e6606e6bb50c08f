package push

import "time"

// Config holds push transport settings.
type Config struct {
	KeepAliveInterval time.Duration `env:"PUSH_KEEPALIVE_INTERVAL" envDefault:"30s"`
	WriteTimeout      time.Duration `env:"PUSH_WRITE_TIMEOUT" envDefault:"10s"`
}
