// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package config defines the application configuration and loads it from
// layered sources (struct defaults, optional YAML file, environment
// variables) using Koanf v2.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Model     ModelConfig     `koanf:"model"`
	Recommend RecommendConfig `koanf:"recommend"`
	Email     EmailConfig     `koanf:"email"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// StorageConfig holds settings for the reservation storage collaborator.
//
// Two drivers are supported:
//   - "postgrest": the Supabase PostgREST HTTP API (URL + APIKey)
//   - "postgres":  a direct Postgres connection (DSN)
type StorageConfig struct {
	Driver  string        `koanf:"driver"`
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	DSN     string        `koanf:"dsn"`
	Timeout time.Duration `koanf:"timeout"`

	// BreakerMaxFailures is the number of consecutive upstream failures
	// before the circuit breaker opens.
	BreakerMaxFailures uint32 `koanf:"breaker_max_failures"`

	// BreakerCooldown is how long the breaker stays open before probing.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
}

// ModelConfig holds outcome-classifier settings.
type ModelConfig struct {
	// Path is the directory of the artifact store. The trained model and
	// its two label encoders are persisted there as a single unit.
	Path string `koanf:"path"`

	// Estimators is the number of trees in the ensemble.
	Estimators int `koanf:"estimators"`

	// Seed makes training deterministic (bootstrap sampling, feature
	// subsets and the train/test split all derive from it).
	Seed int64 `koanf:"seed"`

	// TestFraction is the held-out share used to report accuracy.
	TestFraction float64 `koanf:"test_fraction"`
}

// RecommendConfig holds slot-recommender settings.
type RecommendConfig struct {
	// TopN is the default number of restaurant/hour suggestions.
	TopN int `koanf:"top_n"`

	// MaxClusters bounds the k-means cluster count: k = min(MaxClusters,
	// number of restaurant+hour groups).
	MaxClusters int `koanf:"max_clusters"`

	// Seed fixes the clustering initialization.
	Seed int64 `koanf:"seed"`

	// Restarts is the number of k-means re-initializations; the run with
	// the lowest inertia wins.
	Restarts int `koanf:"restarts"`
}

// EmailConfig holds settings for the external email provider.
type EmailConfig struct {
	ProviderURL    string        `koanf:"provider_url"`
	Timeout        time.Duration `koanf:"timeout"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid values. It is called by
// Load after all sources are merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}

	switch c.Storage.Driver {
	case "postgrest":
		if c.Storage.URL == "" {
			return fmt.Errorf("storage.url is required for the postgrest driver")
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver must be one of postgrest, postgres; got %q", c.Storage.Driver)
	}

	if c.Model.Estimators <= 0 {
		return fmt.Errorf("model.estimators must be positive, got %d", c.Model.Estimators)
	}
	if c.Model.TestFraction <= 0 || c.Model.TestFraction >= 1 {
		return fmt.Errorf("model.test_fraction must be in (0, 1), got %g", c.Model.TestFraction)
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model.path must not be empty")
	}

	if c.Recommend.MaxClusters <= 0 {
		return fmt.Errorf("recommend.max_clusters must be positive, got %d", c.Recommend.MaxClusters)
	}
	if c.Recommend.TopN <= 0 {
		return fmt.Errorf("recommend.top_n must be positive, got %d", c.Recommend.TopN)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
