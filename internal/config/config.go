package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// Catalog source names.
const (
	SourceTMDb    = "tmdb"
	SourceFixture = "fixture"
)

// Config represents the main application configuration
type Config struct {
	// Which catalog backs every frontend
	Catalog CatalogConfig `yaml:"catalog"`

	// Metadata providers
	TMDb TMDbConfig `yaml:"tmdb"`

	// Frontends
	Server   *ServerConfig   `yaml:"server,omitempty"`
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// CatalogConfig selects the catalog source
type CatalogConfig struct {
	Source string `yaml:"source" validate:"oneof=tmdb fixture"` // "tmdb" or "fixture"
}

// TMDbConfig holds TMDb API configuration
type TMDbConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,http_url"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token" validate:"required"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn warning error"`
}

// Load loads configuration from a YAML file with .env and environment variable overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A missing .env file is fine.
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STREAMSHELF_CATALOG_SOURCE"); v != "" {
		c.Catalog.Source = v
	}

	// TMDb
	if v := os.Getenv("STREAMSHELF_TMDB_API_KEY"); v != "" {
		c.TMDb.APIKey = v
	}
	if v := os.Getenv("STREAMSHELF_TMDB_BASE_URL"); v != "" {
		c.TMDb.BaseURL = v
	}

	// Server
	if v := os.Getenv("STREAMSHELF_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			if c.Server == nil {
				c.Server = &ServerConfig{}
			}
			c.Server.Port = port
		}
	}

	// Telegram
	if v := os.Getenv("STREAMSHELF_TELEGRAM_BOT_TOKEN"); v != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.BotToken = v
	}

	// App
	if v := os.Getenv("STREAMSHELF_LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
}

// setDefaults fills in optional values
func (c *Config) setDefaults() {
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceTMDb
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server != nil && c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}

// Validate sets defaults and validates the configuration
func (c *Config) Validate() error {
	c.setDefaults()

	if err := newValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return err
	}

	if c.Catalog.Source == SourceTMDb && strings.TrimSpace(c.TMDb.APIKey) == "" {
		return fmt.Errorf("tmdb.api_key is required when catalog.source is %q", SourceTMDb)
	}

	return nil
}

// newValidator returns a validator that reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldError converts a validator error into a message keyed by YAML path, e.g. "app.log_level".
func fieldError(fe validator.FieldError) error {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", path, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "http_url":
		return fmt.Errorf("%s must be an http or https URL", path)
	case "min", "max":
		return fmt.Errorf("%s must be between 1 and 65535", path)
	default:
		return fmt.Errorf("%s is invalid", path)
	}
}
