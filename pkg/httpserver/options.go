package httpserver

import (
	"log/slog"
	"time"
)

// Option configures the HTTP server. Empty or non-positive values keep the
// defaults.
type Option func(*config)

// WithAddr sets the listen address. Port 0 picks a free port; see Server.Addr.
func WithAddr(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.addr = addr
		}
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(c *config) { setPositive(&c.readTimeout, d) }
}

// WithReadHeaderTimeout bounds reading the request headers.
func WithReadHeaderTimeout(d time.Duration) Option {
	return func(c *config) { setPositive(&c.readHeaderTimeout, d) }
}

// WithWriteTimeout bounds writing a regular response. Event streams extend
// their own deadline on every frame.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) { setPositive(&c.writeTimeout, d) }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) { setPositive(&c.idleTimeout, d) }
}

// WithShutdownTimeout bounds the graceful part of Shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) { setPositive(&c.shutdownTimeout, d) }
}

// WithLogger sets the server logger. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func setPositive(dst *time.Duration, d time.Duration) {
	if d > 0 {
		*dst = d
	}
}
