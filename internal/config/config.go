package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	LedgerPostgres = "postgres"
	LedgerMongo    = "mongo"

	ProfilesPostgres = "postgres"
	ProfilesFile     = "file"
)

type Config struct {
	App struct {
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Import struct {
		// DefaultCodePage is used by profiles whose encoding is "ansi".
		DefaultCodePage string        `envconfig:"DEFAULT_CODE_PAGE" default:"windows-1252"`
		Timeout         time.Duration `envconfig:"IMPORT_TIMEOUT" default:"2m"`
	}

	Ledger struct {
		Driver string `envconfig:"LEDGER_DRIVER" default:"postgres"`
	}

	Profiles struct {
		Source string `envconfig:"PROFILE_SOURCE" default:"postgres"`
		File   string `envconfig:"PROFILES_FILE" default:"profiles.yaml"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"bankimport"`
	}

	Mongo struct {
		URI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017/?replicaSet=rs0"`
		Database string `envconfig:"MONGO_DATABASE" default:"bankimport"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// NeedsPostgres reports whether any configured store lives in Postgres.
func (c *Config) NeedsPostgres() bool {
	return c.Ledger.Driver == LedgerPostgres || c.Profiles.Source == ProfilesPostgres
}

// Level parses LOG_LEVEL, accepting slog's names in any case.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.App.LogLevel))); err != nil {
		return 0, fmt.Errorf("parsing log level %q: %w", c.App.LogLevel, err)
	}

	return l, nil
}

func (c *Config) validate() error {
	switch c.Ledger.Driver {
	case LedgerPostgres, LedgerMongo:
	default:
		return fmt.Errorf("unknown ledger driver %q", c.Ledger.Driver)
	}

	switch c.Profiles.Source {
	case ProfilesPostgres, ProfilesFile:
	default:
		return fmt.Errorf("unknown profile source %q", c.Profiles.Source)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
