package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Defaults.
const (
	DefaultAPIURL       = "https://horizzon-backend.onrender.com"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultRetryDelay   = 500 * time.Millisecond
	DefaultDatabaseType = "sqlite"
	DefaultDatabaseURL  = "eventtracks.db"
)

// Config holds all configuration for the application
type Config struct {
	Environment  string
	APIURL       string
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	DatabaseType string
	DBUrl        string
	LogLevel     string
}

// fileConfig is the optional TOML file layout.
type fileConfig struct {
	API struct {
		URL            string `toml:"url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		MaxRetries     *int   `toml:"max_retries"`
		RetryDelayMS   int    `toml:"retry_delay_ms"`
	} `toml:"api"`
	Database struct {
		Type string `toml:"type"`
		URL  string `toml:"url"`
	} `toml:"database"`
	Logging struct {
		Level string `toml:"level"`
	} `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Environment:  "development",
		APIURL:       DefaultAPIURL,
		HTTPTimeout:  DefaultHTTPTimeout,
		MaxRetries:   DefaultMaxRetries,
		RetryDelay:   DefaultRetryDelay,
		DatabaseType: DefaultDatabaseType,
		DBUrl:        DefaultDatabaseURL,
		LogLevel:     "info",
	}
}

// Load builds the configuration from defaults, the TOML file at path (when
// non-empty) and environment variables, in increasing priority. Outside
// production a .env file is loaded first.
func Load(path string) (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// .env is optional; production relies on the real environment.
	if env != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn(".env file couldn't be loaded", "err", err)
		}
	}

	cfg := Default()
	cfg.Environment = env

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if fc.API.URL != "" {
		c.APIURL = fc.API.URL
	}
	if fc.API.TimeoutSeconds != 0 {
		c.HTTPTimeout = time.Duration(fc.API.TimeoutSeconds) * time.Second
	}
	if fc.API.MaxRetries != nil {
		c.MaxRetries = *fc.API.MaxRetries
	}
	if fc.API.RetryDelayMS != 0 {
		c.RetryDelay = time.Duration(fc.API.RetryDelayMS) * time.Millisecond
	}
	if fc.Database.Type != "" {
		c.DatabaseType = fc.Database.Type
	}
	if fc.Database.URL != "" {
		c.DBUrl = fc.Database.URL
	}
	if fc.Logging.Level != "" {
		c.LogLevel = fc.Logging.Level
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("EVENTTRACKS_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("EVENTTRACKS_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("EVENTTRACKS_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	if v := os.Getenv("EVENTTRACKS_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EVENTTRACKS_MAX_RETRIES: %w", err)
		}
		c.MaxRetries = n
	}
	if v := os.Getenv("EVENTTRACKS_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("EVENTTRACKS_RETRY_DELAY: %w", err)
		}
		c.RetryDelay = d
	}
	if v := os.Getenv("DATABASE_TYPE"); v != "" {
		c.DatabaseType = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DBUrl = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api url %q must be an absolute http(s) URL", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("max retries must not be negative")
	}
	if c.RetryDelay < 0 {
		return errors.New("retry delay must not be negative")
	}
	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "postgres":
		c.DatabaseType = strings.ToLower(c.DatabaseType)
	default:
		return fmt.Errorf("database type %q must be sqlite or postgres", c.DatabaseType)
	}
	if strings.TrimSpace(c.DBUrl) == "" {
		return errors.New("database url must be set")
	}
	return nil
}
