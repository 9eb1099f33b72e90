package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"3000" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	APIBaseURL    string `env:"API_BASE_URL" envDefault:"http://localhost:5000/api" validate:"required,url"`
	APITimeoutSec int    `env:"API_TIMEOUT_SEC" envDefault:"10" validate:"min=1,max=120"`

	SessionBackend       string `env:"SESSION_BACKEND" envDefault:"memory" validate:"oneof=memory redis"`
	RedisAddr            string `env:"REDIS_ADDR" validate:"required_if=SessionBackend redis"`
	RedisPassword        string `env:"REDIS_PASSWORD"`
	SessionIdleMin       int    `env:"SESSION_IDLE_MIN" envDefault:"60" validate:"min=1"`
	SessionSweepSchedule string `env:"SESSION_SWEEP_SCHEDULE" envDefault:"@every 5m" validate:"required"`
	CookieSecure         bool   `env:"COOKIE_SECURE" envDefault:"false"`

	MaxUploadMB int `env:"MAX_UPLOAD_MB" envDefault:"20" validate:"min=1,max=512"`

	CredentialsPath string `env:"BOOKCTL_CREDENTIALS"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSec) * time.Second
}

func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMin) * time.Minute
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
