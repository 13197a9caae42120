package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// Bound on waiting for a session row lock before the caller gets a
	// retryable contention error instead of queueing forever.
	LockTimeout time.Duration `env:"LOCK_TIMEOUT" envDefault:"3s"`

	GamingDayStartHour int    `env:"GAMING_DAY_START_HOUR" envDefault:"6"`
	GamingDayTZ        string `env:"GAMING_DAY_TZ" envDefault:"UTC"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
