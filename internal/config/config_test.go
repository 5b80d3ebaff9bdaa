// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Storage.Driver != "postgrest" {
		t.Errorf("Storage.Driver = %q, want postgrest", cfg.Storage.Driver)
	}
	if cfg.Storage.BreakerMaxFailures != 5 {
		t.Errorf("Storage.BreakerMaxFailures = %d, want 5", cfg.Storage.BreakerMaxFailures)
	}
	if cfg.Model.Estimators != 150 {
		t.Errorf("Model.Estimators = %d, want 150", cfg.Model.Estimators)
	}
	if cfg.Model.Seed != 42 {
		t.Errorf("Model.Seed = %d, want 42", cfg.Model.Seed)
	}
	if cfg.Model.TestFraction != 0.2 {
		t.Errorf("Model.TestFraction = %g, want 0.2", cfg.Model.TestFraction)
	}
	if cfg.Recommend.TopN != 3 || cfg.Recommend.MaxClusters != 3 {
		t.Errorf("Recommend defaults = %+v, want TopN=3 MaxClusters=3", cfg.Recommend)
	}
	if cfg.Security.RateLimitReqs != 100 || cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("rate limit defaults = %+v", cfg.Security)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "test-key")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.URL != "https://example.supabase.co" {
		t.Errorf("Storage.URL = %q", cfg.Storage.URL)
	}
	if cfg.Storage.APIKey != "test-key" {
		t.Errorf("Storage.APIKey = %q", cfg.Storage.APIKey)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Security.CORSOrigins) != 2 ||
		cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 8100\nstorage:\n  driver: postgres\n  dsn: postgres://localhost/foodai\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8100 {
		t.Errorf("Server.Port = %d, want 8100", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "postgres" {
		t.Errorf("Storage.Driver = %q, want postgres", cfg.Storage.Driver)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Storage.URL = "https://example.supabase.co"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }},
		{"postgrest without url", func(c *Config) { c.Storage.URL = "" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = "postgres"; c.Storage.DSN = "" }},
		{"no estimators", func(c *Config) { c.Model.Estimators = 0 }},
		{"test fraction too high", func(c *Config) { c.Model.TestFraction = 1 }},
		{"empty model path", func(c *Config) { c.Model.Path = "" }},
		{"zero clusters", func(c *Config) { c.Recommend.MaxClusters = 0 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}
