// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/pokedex/pokeapi"
)

// Config holds all application configuration
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"12h"`

	Catalog CatalogConfig `envPrefix:"POKEAPI_"`
	Log     LogConfig     `envPrefix:"LOG_"`
}

// CatalogConfig holds settings for the remote catalog
type CatalogConfig struct {
	BaseURL string  `env:"BASE_URL"`
	RPS     float64 `env:"RPS"` // 0 means unlimited
}

// LogConfig controls the zerolog logger
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Pretty bool   `env:"PRETTY"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = pokeapi.DefaultBaseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env.Parse cannot
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1-65535, got %q", c.Port)
	}

	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("POKEAPI_BASE_URL must be an absolute http(s) URL, got %q", c.Catalog.BaseURL)
	}

	if c.Catalog.RPS < 0 {
		return fmt.Errorf("POKEAPI_RPS must not be negative, got %v", c.Catalog.RPS)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %v", err)
	}
	return nil
}

// Logger builds the process logger writing to w
func (l LogConfig) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if l.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
