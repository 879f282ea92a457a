// Package config loads application configuration from flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"

	"github.com/iliyamo/fyyur/internal/database"
)

// Namespace prefixes every environment variable read through conf, e.g.
// FYYUR_WEB_ADDR or FYYUR_DB_DRIVER.
const Namespace = "FYYUR"

// ErrHelpWanted is returned by Load when --help was requested.
var ErrHelpWanted = conf.ErrHelpWanted

// Config holds the core runtime configuration.  Settings for optional
// infrastructure (cache, rate limit, redis, events) are loaded
// separately by their own LoadXConfig functions.
type Config struct {
	Debug bool `conf:"default:false"`
	Web   struct {
		Addr            string        `conf:"default:0.0.0.0:5000"`
		ReadTimeout     time.Duration `conf:"default:5s"`
		WriteTimeout    time.Duration `conf:"default:10s"`
		ShutdownTimeout time.Duration `conf:"default:5s"`
		AccessLog       string        // path of the combined access log; empty disables it
	}
	DB struct {
		Driver  string `conf:"default:mysql"`
		DSN     string `conf:"noprint"` // full DSN; overrides the parts below
		User    string `conf:"default:root"`
		Pass    string `conf:"noprint"`
		Host    string `conf:"default:127.0.0.1"`
		Port    string `conf:"default:3306"`
		Name    string `conf:"default:fyyur"`
		Migrate bool   `conf:"default:true"`
	}
}

// Load reads an optional .env file, then parses flags and FYYUR_*
// environment variables into a Config.  A missing .env is not an error.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}
	var cfg Config
	if err := conf.Parse(args, Namespace, &cfg); err != nil {
		return Config{}, err
	}
	switch cfg.DB.Driver {
	case database.DriverMySQL, database.DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported DB driver %q", cfg.DB.Driver)
	}
	return cfg, nil
}

// Usage renders the --help text.
func Usage() (string, error) {
	var cfg Config
	return conf.Usage(Namespace, &cfg)
}

// String renders the configuration for the startup log, without secrets.
func (c Config) String() string {
	s, err := conf.String(&c)
	if err != nil {
		return err.Error()
	}
	return s
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DB.DSN != "" {
		return c.DB.DSN
	}
	if c.DB.Driver == database.DriverSQLite {
		return "fyyur.db"
	}
	return database.MySQLDSN(c.DB.User, c.DB.Pass, c.DB.Host, c.DB.Port, c.DB.Name)
}
