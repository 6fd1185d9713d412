package cmd

import (
	"errors"
	"fmt"
	"time"

	"shopfloor/internal/adapters/in/ws"
	"shopfloor/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT" default:"8080"`
	DBDriver   string `env:"DB_DRIVER" default:"postgres"`
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" default:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBSslMode  string `env:"DB_SSLMODE" default:"disable"`
	SQLitePath string `env:"SQLITE_PATH" default:"shopfloor.db"`
	LogLevel   string `env:"LOG_LEVEL" default:"info"`
	LogFormat  string `env:"LOG_FORMAT" default:"text"`

	PresenceSweepInterval time.Duration `env:"PRESENCE_SWEEP_INTERVAL" default:"30s"`
	WSEventsPerSecond     float64       `env:"WS_EVENTS_PER_SECOND" default:"20"`
	WSEventBurst          int           `env:"WS_EVENT_BURST" default:"40"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case postgres.DriverPostgres:
		required := []struct{ name, value string }{
			{"DB_HOST", c.DBHost},
			{"DB_USER", c.DBUser},
			{"DB_NAME", c.DBName},
		}
		for _, r := range required {
			if r.value == "" {
				errs = append(errs, fmt.Errorf("%s is required", r.name))
			}
		}
	case postgres.DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver))
	}

	if c.PresenceSweepInterval <= 0 {
		errs = append(errs, errors.New("PRESENCE_SWEEP_INTERVAL must be positive"))
	}
	if c.WSEventsPerSecond <= 0 || c.WSEventBurst <= 0 {
		errs = append(errs, errors.New("WS_EVENTS_PER_SECOND and WS_EVENT_BURST must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func (c Config) Database() postgres.DatabaseConfig {
	return postgres.DatabaseConfig{
		Driver:     c.DBDriver,
		Host:       c.DBHost,
		Port:       c.DBPort,
		User:       c.DBUser,
		Password:   c.DBPassword,
		Name:       c.DBName,
		SSLMode:    c.DBSslMode,
		SQLitePath: c.SQLitePath,
	}
}

func (c Config) WebSocket() ws.Config {
	return ws.Config{
		EventsPerSecond: c.WSEventsPerSecond,
		EventBurst:      c.WSEventBurst,
	}
}
