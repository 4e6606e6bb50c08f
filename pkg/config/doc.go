// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11. The
// default .env file in the working directory is read once, if present;
// LoadEnv reads additional files. Load then parses the environment into any
// struct annotated with env tags:
//
//	type PushConfig struct {
//		KeepAliveInterval time.Duration `env:"PUSH_KEEPALIVE_INTERVAL" envDefault:"30s"`
//	}
//
//	var cfg PushConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Every call parses the current environment; there is no process-wide
// cache, so callers build their configuration once at startup and pass it
// to the services they construct.
package config
