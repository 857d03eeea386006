// Package config loads the storefront client configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvAPIURL         = "BURGER_API_URL"
	EnvLogLevel       = "BURGER_LOG_LEVEL"
	EnvCredentialsDSN = "BURGER_CREDENTIALS_DSN"
)

// Config represents the application configuration
type Config struct {
	APIURL      string        `yaml:"api_url"`
	FeedURL     string        `yaml:"feed_url"`
	Timeout     time.Duration `yaml:"timeout"`
	LogLevel    string        `yaml:"log_level"`
	Development bool          `yaml:"development"`

	Credentials struct {
		Driver string `yaml:"driver"` // memory, sqlite3 or postgres
		DSN    string `yaml:"dsn"`
	} `yaml:"credentials"`

	Sandbox struct {
		Port        int           `yaml:"port"`
		Driver      string        `yaml:"driver"` // sqlite3 or postgres
		DatabaseURL string        `yaml:"database_url"`
		JWTSecret   string        `yaml:"jwt_secret"`
		AccessTTL   time.Duration `yaml:"access_ttl"`
	} `yaml:"sandbox"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{
		APIURL:   "http://localhost:8080/api",
		FeedURL:  "ws://localhost:8080/api/orders/all/ws",
		Timeout:  10 * time.Second,
		LogLevel: "info",
	}
	c.Credentials.Driver = "sqlite3"
	c.Credentials.DSN = "burger-credentials.db"
	c.Sandbox.Port = 8080
	c.Sandbox.Driver = "sqlite3"
	c.Sandbox.DatabaseURL = ":memory:"
	c.Sandbox.JWTSecret = "sandbox-secret"
	c.Sandbox.AccessTTL = 20 * time.Minute
	c.Metrics.Port = 9090
	c.Metrics.Path = "/metrics"
	return c
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvCredentialsDSN); v != "" {
		c.Credentials.DSN = v
	}
}

// Validate checks the values the client cannot start without
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid api_url %q", c.APIURL)
	}
	if c.FeedURL != "" {
		u, err := url.Parse(c.FeedURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			return fmt.Errorf("config: invalid feed_url %q", c.FeedURL)
		}
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	switch c.Credentials.Driver {
	case "memory":
	case "sqlite3", "postgres":
		if c.Credentials.DSN == "" {
			return fmt.Errorf("config: %s credentials need a dsn", c.Credentials.Driver)
		}
	default:
		return fmt.Errorf("config: unknown credentials driver %q", c.Credentials.Driver)
	}
	if c.Sandbox.Port <= 0 || c.Sandbox.Port > 65535 {
		return fmt.Errorf("config: invalid sandbox port %d", c.Sandbox.Port)
	}
	if c.Sandbox.Driver != "sqlite3" && c.Sandbox.Driver != "postgres" {
		return fmt.Errorf("config: unknown sandbox driver %q", c.Sandbox.Driver)
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return errors.New("config: metrics path is empty")
	}
	return nil
}
