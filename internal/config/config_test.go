package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("ELEVENLABS_API_KEY", "test-elevenlabs-key")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10

gemini:
  api_key: "yaml-gemini-key"
  model: "gemini-2.0-flash"

elevenlabs:
  api_key: "yaml-elevenlabs-key"

cache:
  audio_ttl: "12h"

rate_limit:
  enabled: true
  per_minute: 60

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Gemini.APIKey != "yaml-gemini-key" {
		t.Errorf("unexpected gemini key: %q", cfg.Gemini.APIKey)
	}
	if cfg.Cache.AudioTTL != 12*time.Hour {
		t.Errorf("unexpected audio ttl: %v", cfg.Cache.AudioTTL)
	}
	if cfg.RateLimit.PerMinute != 60 {
		t.Errorf("unexpected rate limit: %d", cfg.RateLimit.PerMinute)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("unexpected log format: %q", cfg.Log.Format)
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("expected default model, got %q", cfg.Gemini.Model)
	}
	if cfg.ElevenLabs.BaseURL != "https://api.elevenlabs.io/v1" {
		t.Errorf("expected default base url, got %q", cfg.ElevenLabs.BaseURL)
	}
	if cfg.Cache.AudioTTL != 24*time.Hour {
		t.Errorf("expected default 24h audio ttl, got %v", cfg.Cache.AudioTTL)
	}
	if cfg.Activity.RetentionDays != 90 {
		t.Errorf("expected default 90 day retention, got %d", cfg.Activity.RetentionDays)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("GEMINI_API_KEY", "env-wins")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Gemini.APIKey != "env-wins" {
		t.Errorf("env var should override yaml, got %q", cfg.Gemini.APIKey)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_MissingGeminiKey(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("ELEVENLABS_API_KEY", "k")
	t.Setenv("GEMINI_API_KEY", "")
	t.Chdir(t.TempDir())

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing gemini key")
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "too-short"

	err := cfg.Validate()
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestValidate_EmptySecretIsAnonymous(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty secret should be valid: %v", err)
	}
	if cfg.IdentityEnabled() {
		t.Error("identity should be disabled without a secret")
	}
}

func TestValidate_BadAudioTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.AudioTTL = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero audio ttl")
	}
}

func TestValidate_BadRetention(t *testing.T) {
	cfg := validConfig()
	cfg.Activity.RetentionDays = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero retention")
	}
}

func TestValidate_BadRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.PerMinute = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rate limit")
	}
}

func validConfig() *Config {
	return &Config{
		Database:   DatabaseConfig{DSN: "postgres://u:p@localhost:5432/testdb"},
		Gemini:     GeminiConfig{APIKey: "k"},
		ElevenLabs: ElevenLabsConfig{APIKey: "k"},
		Auth:       AuthConfig{JWTSecret: "this-is-a-very-long-jwt-secret-32-chars!"},
		Cache:      CacheConfig{AudioTTL: 24 * time.Hour},
		Activity:   ActivityConfig{RetentionDays: 90},
		RateLimit:  RateLimitConfig{Enabled: true, PerMinute: 120},
	}
}
