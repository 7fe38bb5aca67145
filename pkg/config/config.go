// Package config loads server configuration from the environment.
// All settings live under the MAPMCP_ prefix, e.g. MAPMCP_RETRY_MAX_RETRIES;
// the Mapbox token is also read from the conventional MAPBOX_ACCESS_TOKEN.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is the full server configuration.
type Config struct {
	Token     string          `koanf:"token"`
	UserAgent string          `koanf:"user_agent"`
	Retry     RetryConfig     `koanf:"retry"`
	Rate      RateConfig      `koanf:"rate"`
	Resources ResourcesConfig `koanf:"resources"`
}

// RetryConfig parameterizes the pipeline retry policy.
type RetryConfig struct {
	MaxRetries     int `koanf:"max_retries"`
	InitialDelayMs int `koanf:"initial_delay_ms"`
	MaxDelayMs     int `koanf:"max_delay_ms"`
}

// RateConfig parameterizes the pipeline rate-limit policy.
type RateConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

// ResourcesConfig parameterizes the temporary resource store.
type ResourcesConfig struct {
	ThresholdBytes int `koanf:"threshold_bytes"`
	TTLMinutes     int `koanf:"ttl_minutes"`
}

// defaults applied for any key absent from the environment.
var defaults = map[string]interface{}{
	"user_agent":                "mapmcp/0.2.0",
	"retry.max_retries":         3,
	"retry.initial_delay_ms":    250,
	"retry.max_delay_ms":        5000,
	"rate.rps":                  10.0,
	"rate.burst":                5,
	"resources.threshold_bytes": 50 * 1024,
	"resources.ttl_minutes":     30,
}

// envKeys maps MAPMCP_-suffixed variable names to config paths. Field names
// themselves contain underscores, so the mapping is explicit rather than a
// blanket underscore-to-dot rewrite.
var envKeys = map[string]string{
	"TOKEN":                     "token",
	"USER_AGENT":                "user_agent",
	"RETRY_MAX_RETRIES":         "retry.max_retries",
	"RETRY_INITIAL_DELAY_MS":    "retry.initial_delay_ms",
	"RETRY_MAX_DELAY_MS":        "retry.max_delay_ms",
	"RATE_RPS":                  "rate.rps",
	"RATE_BURST":                "rate.burst",
	"RESOURCES_THRESHOLD_BYTES": "resources.threshold_bytes",
	"RESOURCES_TTL_MINUTES":     "resources.ttl_minutes",
}

// Load reads configuration from MAPMCP_-prefixed environment variables,
// filling in defaults for anything unset.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider("MAPMCP_", ".", func(s string) string {
		name := strings.TrimPrefix(s, "MAPMCP_")
		if path, ok := envKeys[name]; ok {
			return path
		}
		return strings.ToLower(name)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	for key, val := range defaults {
		if !k.Exists(key) {
			k.Set(key, val)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Token == "" {
		cfg.Token = os.Getenv("MAPBOX_ACCESS_TOKEN")
	}
	return &cfg, nil
}

// Validate checks the constraints every consumer of this config relies on.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("access token is required (set MAPMCP_TOKEN or MAPBOX_ACCESS_TOKEN)")
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must be >= 0, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.InitialDelayMs <= 0 {
		return fmt.Errorf("retry.initial_delay_ms must be > 0, got %d", c.Retry.InitialDelayMs)
	}
	if c.Retry.MaxDelayMs < c.Retry.InitialDelayMs {
		return fmt.Errorf("retry.max_delay_ms must be >= retry.initial_delay_ms, got %d < %d",
			c.Retry.MaxDelayMs, c.Retry.InitialDelayMs)
	}
	if c.Resources.ThresholdBytes <= 0 {
		return fmt.Errorf("resources.threshold_bytes must be > 0, got %d", c.Resources.ThresholdBytes)
	}
	if c.Resources.TTLMinutes <= 0 {
		return fmt.Errorf("resources.ttl_minutes must be > 0, got %d", c.Resources.TTLMinutes)
	}
	return nil
}

// InitialDelay returns the retry initial delay as a duration.
func (c *RetryConfig) InitialDelay() time.Duration {
	return time.Duration(c.InitialDelayMs) * time.Millisecond
}

// MaxDelay returns the retry delay cap as a duration.
func (c *RetryConfig) MaxDelay() time.Duration {
	return time.Duration(c.MaxDelayMs) * time.Millisecond
}

// TTL returns the resource time-to-live as a duration.
func (c *ResourcesConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}
