package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey  string        `env:"GEMINI_API_KEY,required"`
	TextModel     string        `env:"AETERNA_TEXT_MODEL" envDefault:"gemini-3-pro-preview"`
	ImageModel    string        `env:"AETERNA_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	Environment   string        `env:"AETERNA_ENVIRONMENT" envDefault:"development"`
	LogLevel      string        `env:"AETERNA_LOG_LEVEL" envDefault:"info"`
	LogFile       string        `env:"AETERNA_LOG_FILE" envDefault:"aeterna.log"`
	RedisURL      string        `env:"AETERNA_REDIS_URL"` // empty disables the image cache
	ImageCacheTTL time.Duration `env:"AETERNA_IMAGE_CACHE_TTL" envDefault:"24h"`
	OTelEndpoint  string        `env:"AETERNA_OTEL_ENDPOINT"` // empty disables tracing
	ScenarioFile  string        `env:"AETERNA_SCENARIO_FILE"` // empty uses the embedded scenario
}

// LoadConfig loads the configuration from the environment, after merging an
// optional .env file from the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	return &cfg, nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
