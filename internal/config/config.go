package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Herdbook"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"herdbook"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	// Tier is the fixed subscription tier reported by the mock tier lookup.
	Tier string `envconfig:"TIER" default:"free"`

	Finance struct {
		BaseCurrency string `envconfig:"BASE_CURRENCY" default:"EUR"`
	}

	Reports struct {
		Schedule  string `envconfig:"REPORT_JOBS_SCHEDULE" default:"@every 1m"`
		BatchSize int    `envconfig:"REPORT_JOBS_BATCH_SIZE" default:"10"`

		// Lease is how long a running job may go unfinished before another
		// runner claims it again.
		Lease time.Duration `envconfig:"REPORT_JOBS_LEASE" default:"15m"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
