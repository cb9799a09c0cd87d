// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	APIBaseURL  string `env:"API_BASE_URL" default:"http://localhost:8080/api"`
	SessionFile string `env:"SESSION_FILE"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// RequestTimeout bounds each HTTP call. Zero means no client-side
	// timeout; the call is bounded only by its context.
	RequestTimeout time.Duration `env:"API_REQUEST_TIMEOUT" default:"0s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must be http or https, got %q", cfg.APIBaseURL)
	}

	// A trailing slash would double up when endpoint paths are appended.
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("API_REQUEST_TIMEOUT must not be negative, got %s", cfg.RequestTimeout)
	}

	return nil
}
