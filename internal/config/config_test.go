package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type validateCase struct {
	name    string
	modify  func(*Config)
	wantErr string
}

// validConfig returns a minimal Config that passes Validate().
func validConfig() Config {
	return Config{
		Catalog: CatalogConfig{Source: SourceTMDb},
		TMDb:    TMDbConfig{APIKey: "tmdb-key"},
		App:     AppConfig{LogLevel: "info"},
	}
}

func TestValidate_CoreFields(t *testing.T) {
	t.Parallel()

	tests := []validateCase{
		{"valid_tmdb", nil, ""},
		{"valid_fixture_no_apikey", func(c *Config) {
			c.Catalog.Source = SourceFixture
			c.TMDb.APIKey = ""
		}, ""},
		{"empty_source_defaults_to_tmdb", func(c *Config) { c.Catalog.Source = "" }, ""},
		{"invalid_source", func(c *Config) { c.Catalog.Source = "imdb" }, "catalog.source must be one of: tmdb, fixture"},
		{"missing_tmdb_key", func(c *Config) { c.TMDb.APIKey = "" }, "tmdb.api_key is required"},
		{"blank_tmdb_key", func(c *Config) { c.TMDb.APIKey = "   " }, "tmdb.api_key is required"},
		{"valid_base_url", func(c *Config) { c.TMDb.BaseURL = "http://localhost:9000/3" }, ""},
		{"invalid_base_url", func(c *Config) { c.TMDb.BaseURL = "ftp://example.com" }, "tmdb.base_url must be an http or https URL"},
		{"invalid_log_level", func(c *Config) { c.App.LogLevel = "trace" }, "app.log_level must be one of"},
		{"warning_accepted", func(c *Config) { c.App.LogLevel = "warning" }, ""},
	}

	runValidateTests(t, tests)
}

func TestValidate_OptionalFrontends(t *testing.T) {
	t.Parallel()

	tests := []validateCase{
		{"telegram_missing_token", func(c *Config) {
			c.Telegram = &TelegramConfig{}
		}, "telegram.bot_token is required"},
		{"telegram_valid", func(c *Config) {
			c.Telegram = &TelegramConfig{BotToken: "123:ABC", AllowedUserIDs: []int64{42}}
		}, ""},
		{"server_port_negative", func(c *Config) {
			c.Server = &ServerConfig{Port: -1}
		}, "server.port must be between 1 and 65535"},
		{"server_port_too_high", func(c *Config) {
			c.Server = &ServerConfig{Port: 65536}
		}, "server.port must be between 1 and 65535"},
		{"server_port_max_valid", func(c *Config) {
			c.Server = &ServerConfig{Port: 65535}
		}, ""},
		{"server_port_zero_gets_default", func(c *Config) {
			c.Server = &ServerConfig{Port: 0}
		}, ""},
	}

	runValidateTests(t, tests)
}

func runValidateTests(t *testing.T, tests []validateCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			if tt.modify != nil {
				tt.modify(&cfg)
			}
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty_config", func(t *testing.T) {
		t.Parallel()
		cfg := Config{}
		cfg.setDefaults()
		if cfg.Catalog.Source != SourceTMDb {
			t.Errorf("expected default source tmdb, got %q", cfg.Catalog.Source)
		}
		if cfg.App.LogLevel != "info" {
			t.Errorf("expected default log level 'info', got %q", cfg.App.LogLevel)
		}
		if cfg.Server != nil {
			t.Error("expected Server to remain nil")
		}
	})

	t.Run("server_port_default", func(t *testing.T) {
		t.Parallel()
		cfg := Config{Server: &ServerConfig{}}
		cfg.setDefaults()
		if cfg.Server.Port != 8080 {
			t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
		}
	})

	t.Run("values_preserved", func(t *testing.T) {
		t.Parallel()
		cfg := Config{
			Catalog: CatalogConfig{Source: SourceFixture},
			Server:  &ServerConfig{Port: 9090},
			App:     AppConfig{LogLevel: "debug"},
		}
		cfg.setDefaults()
		if cfg.Catalog.Source != SourceFixture || cfg.Server.Port != 9090 || cfg.App.LogLevel != "debug" {
			t.Errorf("explicit values overwritten: %+v", cfg)
		}
	})
}

const minimalYAML = `
catalog:
  source: tmdb
tmdb:
  api_key: yaml-key
`

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_ValidMinimal(t *testing.T) {
	t.Parallel()
	path := writeTempYAML(t, minimalYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TMDb.APIKey != "yaml-key" {
		t.Errorf("expected api key yaml-key, got %q", cfg.TMDb.APIKey)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.App.LogLevel)
	}
	if cfg.Server != nil || cfg.Telegram != nil {
		t.Error("expected optional frontends to stay nil")
	}
}

func TestLoad_AllSections(t *testing.T) {
	t.Parallel()
	fullYAML := `
catalog:
  source: fixture
tmdb:
  base_url: http://localhost:9000/3
server:
  port: 9090
telegram:
  bot_token: "123:ABC"
  allowed_user_ids: [1, 2]
app:
  log_level: debug
`
	path := writeTempYAML(t, fullYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Catalog.Source != SourceFixture {
		t.Errorf("expected fixture source, got %q", cfg.Catalog.Source)
	}
	if cfg.Server == nil || cfg.Server.Port != 9090 {
		t.Errorf("expected server port 9090, got %v", cfg.Server)
	}
	if cfg.Telegram == nil || cfg.Telegram.BotToken != "123:ABC" || len(cfg.Telegram.AllowedUserIDs) != 2 {
		t.Errorf("expected telegram config, got %v", cfg.Telegram)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.App.LogLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid_yaml", func(t *testing.T) {
		t.Parallel()
		path := writeTempYAML(t, "{{invalid yaml}}")
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "failed to parse") {
			t.Fatalf("expected parse error, got %v", err)
		}
	})

	t.Run("file_not_found", func(t *testing.T) {
		t.Parallel()
		_, err := Load("/nonexistent/path/config.yaml")
		if err == nil || !strings.Contains(err.Error(), "failed to read") {
			t.Fatalf("expected read error, got %v", err)
		}
	})

	t.Run("invalid_config", func(t *testing.T) {
		t.Parallel()
		path := writeTempYAML(t, "catalog:\n  source: nowhere\n")
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

// Env override tests use t.Setenv and therefore cannot run in parallel.
func TestEnvOverrides(t *testing.T) {
	t.Run("api_key_override", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("STREAMSHELF_TMDB_API_KEY", "env-key")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.TMDb.APIKey != "env-key" {
			t.Errorf("expected env-key, got %q", cfg.TMDb.APIKey)
		}
	})

	t.Run("source_override", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("STREAMSHELF_CATALOG_SOURCE", "fixture")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Catalog.Source != SourceFixture {
			t.Errorf("expected fixture, got %q", cfg.Catalog.Source)
		}
	})

	t.Run("server_created_from_env", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("STREAMSHELF_SERVER_PORT", "7070")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Server == nil || cfg.Server.Port != 7070 {
			t.Errorf("expected server port 7070, got %v", cfg.Server)
		}
	})

	t.Run("invalid_port_ignored", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("STREAMSHELF_SERVER_PORT", "not-a-number")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Server != nil {
			t.Errorf("expected no server config, got %v", cfg.Server)
		}
	})

	t.Run("telegram_created_from_env", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("STREAMSHELF_TELEGRAM_BOT_TOKEN", "999:XYZ")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Telegram == nil || cfg.Telegram.BotToken != "999:XYZ" {
			t.Errorf("expected telegram token from env, got %v", cfg.Telegram)
		}
	})

	t.Run("log_level_override", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("STREAMSHELF_LOG_LEVEL", "error")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.App.LogLevel != "error" {
			t.Errorf("expected error level, got %q", cfg.App.LogLevel)
		}
	})
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := SetupLogger("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected JSON warn record, got %s", out)
	}
}

func TestLoggerContext(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)
	ctx := ContextWithLogger(context.Background(), logger)
	if got := LoggerFromContext(ctx); got != logger {
		t.Error("expected logger from context")
	}
	if got := LoggerFromContext(context.Background()); got == nil {
		t.Error("expected default logger fallback")
	}
}
