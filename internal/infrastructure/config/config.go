package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultPlaceholderImage is shown when a generation yields no image and no
// original image is set.
const DefaultPlaceholderImage = "https://images.unsplash.com/photo-1618221195710-dd6b41faaea6?w=800&h=600&fit=crop&q=80"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Generation GenerationConfig
	Studio     StudioConfig
	Storage    StorageConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// GenerationConfig holds the upstream image generation endpoints.
type GenerationConfig struct {
	Endpoint         string        `envconfig:"GENERATION_ENDPOINT" default:"http://localhost:3000/api/generate"`
	ChatEndpoint     string        `envconfig:"CHAT_ENDPOINT" default:"http://localhost:3000/api/chat"`
	Timeout          time.Duration `envconfig:"GENERATION_TIMEOUT" default:"2m"`
	Retries          int           `envconfig:"GENERATION_RETRIES" default:"1"`
	RequestsPerSec   float64       `envconfig:"GENERATION_RPS" default:"0"`
	PlaceholderImage string        `envconfig:"PLACEHOLDER_IMAGE_URL" default:"https://images.unsplash.com/photo-1618221195710-dd6b41faaea6?w=800&h=600&fit=crop&q=80"`
}

// StudioConfig holds store timing and limits.
type StudioConfig struct {
	ProgressTick time.Duration `envconfig:"PROGRESS_TICK" default:"500ms"`
	ReplyDelay   time.Duration `envconfig:"REPLY_DELAY" default:"1500ms"`
	RenderLimit  int           `envconfig:"RENDER_LIMIT" default:"1000"`
	StylesFile   string        `envconfig:"STYLES_FILE"`
}

// StorageConfig holds durable storage configuration.
type StorageConfig struct {
	Dir         string        `envconfig:"STORAGE_DIR" default:"/tmp/visionary-studio"`
	Key         string        `envconfig:"STORAGE_KEY" default:"visionary-studio-storage"`
	Compression string        `envconfig:"STORAGE_COMPRESSION" default:"none"`
	Debounce    time.Duration `envconfig:"PERSIST_DEBOUNCE" default:"250ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Generation: GenerationConfig{
			Endpoint:         "http://localhost:3000/api/generate",
			ChatEndpoint:     "http://localhost:3000/api/chat",
			Timeout:          2 * time.Minute,
			Retries:          1,
			PlaceholderImage: DefaultPlaceholderImage,
		},
		Studio: StudioConfig{
			ProgressTick: 500 * time.Millisecond,
			ReplyDelay:   1500 * time.Millisecond,
			RenderLimit:  1000,
		},
		Storage: StorageConfig{
			Dir:         "/tmp/visionary-studio",
			Key:         "visionary-studio-storage",
			Compression: "none",
			Debounce:    250 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Compression {
	case "none", "gzip", "zstd":
	default:
		return fmt.Errorf("invalid STORAGE_COMPRESSION %q: want none, gzip or zstd", c.Storage.Compression)
	}
	if c.Studio.ProgressTick <= 0 {
		return fmt.Errorf("PROGRESS_TICK must be positive")
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	if c.Generation.Retries < 0 {
		return fmt.Errorf("GENERATION_RETRIES must not be negative")
	}
	if c.Studio.RenderLimit < 0 {
		return fmt.Errorf("RENDER_LIMIT must not be negative")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
