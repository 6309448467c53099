// Package config reads the settings of the contacts API from the environment.
//
// Usage example on the command line:
//
//	> PORT=8080 DBHOST=localhost DBUSER=dirk DBPWD=bullo92 GIN_LOGGING=OFF go run ./cmd/service
//
// Variables that are not set in the environment are taken from a .env file in the working
// directory, if there is one.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database holds the connection parameters of the MySQL database.
type Database struct {
	Host            string
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Paging holds the bounds of the 'limit' URL parameter.
type Paging struct {
	MinLimit     int
	MaxLimit     int
	DefaultLimit int
}

// Config is the complete configuration of the service.
type Config struct {
	Port            int
	GinLogging      bool
	LogLevel        string
	LogFormat       string
	Location        *time.Location
	BirthdayDays    int
	ShutdownTimeout time.Duration
	Database        Database
	Paging          Paging
}

// Load reads the configuration. It tries to load a .env file first; a missing file is not an
// error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the environment variables only.
func FromEnv() (Config, error) {
	var errs []error
	intVar := func(key string, fallback int) int {
		v, err := getEnvInt(key, fallback)
		errs = append(errs, err)
		return v
	}
	durationVar := func(key string, fallback time.Duration) time.Duration {
		v, err := getEnvDuration(key, fallback)
		errs = append(errs, err)
		return v
	}

	cfg := Config{
		Port:            intVar("PORT", 8080),
		GinLogging:      !strings.EqualFold(os.Getenv("GIN_LOGGING"), "off"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		BirthdayDays:    intVar("BIRTHDAY_WINDOW_DAYS", 7),
		ShutdownTimeout: durationVar("SHUTDOWN_TIMEOUT", 5*time.Second),
		Database: Database{
			Host:            getEnv("DBHOST", "localhost:3306"),
			User:            os.Getenv("DBUSER"),
			Password:        os.Getenv("DBPWD"),
			Name:            getEnv("DBNAME", "contacts"),
			MaxOpenConns:    intVar("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    intVar("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: durationVar("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Paging: Paging{
			MinLimit:     intVar("PAGE_LIMIT_MIN", 10),
			MaxLimit:     intVar("PAGE_LIMIT_MAX", 500),
			DefaultLimit: intVar("PAGE_LIMIT_DEFAULT", 10),
		},
	}

	location, err := time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TZ: %w", err))
	}
	cfg.Location = location

	errs = append(errs, cfg.validate())
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: %d is not a valid port", c.Port))
	}
	if c.BirthdayDays < 1 || c.BirthdayDays > 31 {
		errs = append(errs, fmt.Errorf("BIRTHDAY_WINDOW_DAYS: %d is not between 1 and 31", c.BirthdayDays))
	}
	if c.Paging.MinLimit < 1 || c.Paging.MinLimit > c.Paging.MaxLimit {
		errs = append(errs, fmt.Errorf("PAGE_LIMIT_MIN and PAGE_LIMIT_MAX: invalid range %d..%d",
			c.Paging.MinLimit, c.Paging.MaxLimit))
	}
	if c.Paging.DefaultLimit < c.Paging.MinLimit || c.Paging.DefaultLimit > c.Paging.MaxLimit {
		errs = append(errs, fmt.Errorf("PAGE_LIMIT_DEFAULT: %d is outside %d..%d",
			c.Paging.DefaultLimit, c.Paging.MinLimit, c.Paging.MaxLimit))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: could not parse %q as integer", key, v)
	}
	return i, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: could not parse %q as duration", key, v)
	}
	return d, nil
}
