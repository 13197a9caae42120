package config

import "github.com/caarlos0/env/v11"

// TestConfig carries the one knob the Postgres-backed test suites need.
// When TEST_POSTGRES_DSN is absent those suites skip, so the pure
// domain tests still run anywhere.
type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	err := env.Parse(&cfg)
	return cfg, err
}
