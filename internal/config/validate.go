package config

import (
	"fmt"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required: %w", domain.ErrConfiguration)
	}
	if c.ElevenLabs.APIKey == "" {
		return fmt.Errorf("elevenlabs.api_key is required: %w", domain.ErrConfiguration)
	}

	// An empty secret means anonymous-only operation, which is valid.
	// A short secret is a misconfiguration, not a feature.
	if s := c.Auth.JWTSecret; s != "" && len(s) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d): %w",
			len(s), domain.ErrConfiguration)
	}

	if c.Cache.AudioTTL <= 0 {
		return fmt.Errorf("cache.audio_ttl must be > 0 (got %v)", c.Cache.AudioTTL)
	}
	if c.Activity.RetentionDays <= 0 {
		return fmt.Errorf("activity.retention_days must be > 0 (got %d)", c.Activity.RetentionDays)
	}
	if c.RateLimit.Enabled && c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate_limit.per_minute must be > 0 (got %d)", c.RateLimit.PerMinute)
	}

	return nil
}

// IdentityEnabled reports whether bearer tokens should be verified.
func (c *Config) IdentityEnabled() bool {
	return c.Auth.JWTSecret != ""
}
