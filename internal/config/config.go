// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package config loads the application configuration in three layers:
// built-in defaults, an optional YAML config file, and environment
// variables, in ascending precedence.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Security  SecurityConfig  `koanf:"security"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Logging   LoggingConfig   `koanf:"logging"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is requests per minute per client IP. Zero disables
	// rate limiting.
	RateLimit int `koanf:"rate_limit"`

	// CORSOrigins lists allowed CORS origins. Empty disables CORS.
	CORSOrigins []string `koanf:"cors_origins"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	Path           string        `koanf:"path"`
	InMemory       bool          `koanf:"in_memory"`
	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// SecurityConfig holds authentication settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Required, minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is how long a session token stays valid.
	SessionTimeout time.Duration `koanf:"session_timeout"`
}

// DiscoveryConfig holds the discovery engine's capacity settings. Zero
// values fall back to the engine defaults.
type DiscoveryConfig struct {
	MaxFrontier   int `koanf:"max_frontier"`
	MaxPreference int `koanf:"max_preference"`
	MaxSeen       int `koanf:"max_seen"`

	// FeedLimit is the default page size for feed requests.
	FeedLimit int `koanf:"feed_limit"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// defaultConfig returns the built-in defaults, overridden by the config
// file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       300,
		},
		Store: StoreConfig{
			Path:           "/data/lantern",
			InMemory:       false,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Security: SecurityConfig{
			SessionTimeout: 24 * time.Hour,
		},
		Discovery: DiscoveryConfig{
			MaxFrontier:   99,
			MaxPreference: 999,
			MaxSeen:       9999,
			FeedLimit:     20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for values that would make the
// server misbehave at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters, got %d", len(c.Security.JWTSecret))
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Discovery.MaxFrontier < 1 {
		return fmt.Errorf("discovery.max_frontier must be positive, got %d", c.Discovery.MaxFrontier)
	}
	if c.Discovery.MaxPreference < 1 {
		return fmt.Errorf("discovery.max_preference must be positive, got %d", c.Discovery.MaxPreference)
	}
	if c.Discovery.MaxSeen < 1 {
		return fmt.Errorf("discovery.max_seen must be positive, got %d", c.Discovery.MaxSeen)
	}
	if c.Discovery.FeedLimit < 1 || c.Discovery.FeedLimit > c.Discovery.MaxFrontier {
		return fmt.Errorf("discovery.feed_limit must be between 1 and %d, got %d",
			c.Discovery.MaxFrontier, c.Discovery.FeedLimit)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
