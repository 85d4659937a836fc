// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backend selects the datastore transport.
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
	BackendCLI      = "cli"
)

// Config holds all tunables. SupabaseURL and SupabaseKey are deliberately
// not required at load time: the dashboard starts without them and reports
// the missing configuration through the snapshot status instead.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	SupabaseURL string `env:"SUPABASE_URL"`
	SupabaseKey string `env:"SUPABASE_KEY"`

	SourceBackend string `env:"SOURCE_BACKEND" envDefault:"rest"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
	SourceCommand string `env:"SOURCE_COMMAND"`

	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"30s"`
	QueryTimeout    time.Duration `env:"QUERY_TIMEOUT" envDefault:"20s"`
	SourceRPS       int           `env:"SOURCE_RPS" envDefault:"8"`
	HealthPort      int           `env:"HEALTH_PORT" envDefault:"8080"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	switch cfg.SourceBackend {
	case BackendREST, BackendPostgres, BackendCLI:
	default:
		return nil, fmt.Errorf("unknown SOURCE_BACKEND %q", cfg.SourceBackend)
	}

	return cfg, nil
}

// DatastoreConfigured reports whether the credentials for the selected
// backend are present. Checked on every refresh attempt, not at startup.
func (c *Config) DatastoreConfigured() bool {
	switch c.SourceBackend {
	case BackendPostgres:
		return c.PostgresDSN != ""
	case BackendCLI:
		return c.SourceCommand != ""
	default:
		return c.SupabaseURL != "" && c.SupabaseKey != ""
	}
}
