// Package config loads tipsplit settings.
//
// Configuration can be loaded from:
//  1. YAML file (tipsplit.yaml), with ${VAR} expansion
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg, err := config.LoadOrEnv("tipsplit.yaml")
//	store, err := sqlite.New(cfg.Storage.Path)
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/tipsplitter/internal/calculator"
	"github.com/mmynk/tipsplitter/internal/models"
)

// DefaultPath is where LoadOrEnv looks when no path is given.
const DefaultPath = "tipsplit.yaml"

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrUnknownDriver   = errors.New("unknown storage driver")
)

// Config represents the entire application configuration
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// StorageConfig selects the key-value backend
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"` // sqlite database file
	DSN    string `yaml:"dsn"`  // postgres connection string

	// PollInterval is how often a watching process checks the database for
	// writes by other processes, e.g. "500ms". Zero disables it.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultsConfig holds the starting values of a new calculation
type DefaultsConfig struct {
	Currency   string `yaml:"currency"`
	Language   string `yaml:"language"`
	TipPercent int    `yaml:"tip_percent"`
	NumPeople  int    `yaml:"num_people"`
	ShareURL   string `yaml:"share_url"`
}

// MetricsConfig holds the Prometheus textfile destination
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:       DriverSQLite,
			Path:         "./data/tipsplit.db",
			PollInterval: time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
		Defaults: DefaultsConfig{
			Currency:   string(models.DefaultCurrency),
			Language:   string(models.DefaultLanguage),
			TipPercent: calculator.DefaultTipPercent,
			NumPeople:  calculator.DefaultNumPeople,
			ShareURL:   "https://tipsplit.app/",
		},
	}
}

// Load reads and parses the config file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${TIPSPLIT_DSN})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	d := Default()
	return &Config{
		Storage: StorageConfig{
			Driver: getEnv("TIPSPLIT_STORAGE", d.Storage.Driver),
			Path:   getEnv("DB_PATH", d.Storage.Path),
			DSN:    os.Getenv("TIPSPLIT_DSN"),

			PollInterval: getEnvDuration("TIPSPLIT_POLL_INTERVAL", d.Storage.PollInterval),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", d.Logging.Level),
		},
		Defaults: DefaultsConfig{
			Currency:   getEnv("TIPSPLIT_CURRENCY", d.Defaults.Currency),
			Language:   getEnv("TIPSPLIT_LANGUAGE", d.Defaults.Language),
			TipPercent: getEnvInt("TIPSPLIT_TIP", d.Defaults.TipPercent),
			NumPeople:  getEnvInt("TIPSPLIT_PEOPLE", d.Defaults.NumPeople),
			ShareURL:   getEnv("TIPSPLIT_SHARE_URL", d.Defaults.ShareURL),
		},
		Metrics: MetricsConfig{
			TextfilePath: os.Getenv("TIPSPLIT_METRICS_TEXTFILE"),
		},
	}
}

// LoadOrEnv loads path when it exists and falls back to environment
// variables otherwise. A file that exists but is invalid is an error.
func LoadOrEnv(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = LoadFromEnv()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// Validate checks the values that cannot be clamped into range.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage driver %q requires a dsn", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}
	if _, err := models.ParseCurrency(c.Defaults.Currency); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, c.Defaults.Currency)
	}
	return nil
}

// Currency returns the configured default currency.
func (c *Config) Currency() models.Currency {
	cur, err := models.ParseCurrency(c.Defaults.Currency)
	if err != nil {
		return models.DefaultCurrency
	}
	return cur
}

// Language returns the configured default language.
func (c *Config) Language() models.Language {
	return models.ParseLanguage(c.Defaults.Language)
}

// TipPercent returns the configured default tip, clamped to the slider range.
func (c *Config) TipPercent() int {
	return calculator.ClampTipPercent(c.Defaults.TipPercent)
}

// NumPeople returns the configured head count, at least one.
func (c *Config) NumPeople() int {
	return max(c.Defaults.NumPeople, calculator.MinNumPeople)
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration retrieves a duration environment variable with a fallback default
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
