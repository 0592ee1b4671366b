// Package config provides configuration management for the prop ensemble.
package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	invalidConfigPath     = "testdata/invalid_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg    = "expected no error, got %v"
	expectedNonNilConfig  = "expected non-nil config"
	propEnsembleName      = "prop-ensemble"
	developmentEnv        = "development"
	testAppName           = "test-app"
	testAppNameVar        = "TEST_APP_NAME"
	expandedAppName       = "expanded-app"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != propEnsembleName {
		t.Errorf("expected app name '%s', got '%s'", propEnsembleName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Ensemble.Weights.Deterministic != 0.45 {
		t.Errorf("expected deterministic weight 0.45, got %v", cfg.Ensemble.Weights.Deterministic)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL().Seconds() != 120 {
		t.Errorf("expected cache ttl 120s, got %v", cfg.Cache.TTL())
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("PROP_ENSEMBLE_APP_NAME", testAppName)

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestLoadConfigExpandsPlaceholders tests ${VAR} expansion inside the YAML file
func TestLoadConfigExpandsPlaceholders(t *testing.T) {
	t.Setenv(testAppNameVar, expandedAppName)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != expandedAppName {
		t.Errorf("expected expanded app name '%s', got '%s'", expandedAppName, cfg.App.Name)
	}
	if cfg.Ensemble.Weights.Sum() != 21 {
		t.Errorf("expected raw weight sum 21, got %v", cfg.Ensemble.Weights.Sum())
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults fill a missing file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != propEnsembleName {
		t.Errorf("expected default app name, got '%s'", cfg.App.Name)
	}
	if cfg.Ensemble.DefaultOdds != 1.91 {
		t.Errorf("expected default odds 1.91, got %v", cfg.Ensemble.DefaultOdds)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Batch.Workers)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
}

// TestLoadWithDefaultsEnvOverride tests env overrides on top of defaults
func TestLoadWithDefaultsEnvOverride(t *testing.T) {
	if err := os.Unsetenv("PROP_ENSEMBLE_BATCH_WORKERS"); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	t.Setenv("PROP_ENSEMBLE_BATCH_WORKERS", "3")

	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Batch.Workers != 3 {
		t.Errorf("expected 3 workers from environment, got %d", cfg.Batch.Workers)
	}
}

// TestValidateRejectsInvalidConfig tests custom validators and cross-field rules
func TestValidateRejectsInvalidConfig(t *testing.T) {
	cfg, err := Load(invalidConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "Environment") {
		t.Errorf("expected environment error, got %v", err)
	}
	if !strings.Contains(err.Error(), "LogLevel") {
		t.Errorf("expected log level error, got %v", err)
	}
}

func TestValidateCrossField(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadWithDefaults(nonexistentConfigPath)
		if err != nil {
			t.Fatalf(expectedNoErrorMsg, err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero weights",
			mutate:  func(c *Config) { c.Ensemble.Weights = WeightsConfig{} },
			wantErr: "weights",
		},
		{
			name:    "cache without ttl",
			mutate:  func(c *Config) { c.Cache.TTLSeconds = 0 },
			wantErr: "ttl_seconds",
		},
		{
			name:    "metrics path without slash",
			mutate:  func(c *Config) { c.Metrics.Path = "metrics" },
			wantErr: "metrics path",
		},
		{
			name:    "metrics path on health route",
			mutate:  func(c *Config) { c.Metrics.Path = "/health" },
			wantErr: "reserved",
		},
		{
			name:    "metrics path on scoring route",
			mutate:  func(c *Config) { c.Metrics.Path = "/v1/score/" },
			wantErr: "reserved",
		},
		{
			name:    "metrics path at root",
			mutate:  func(c *Config) { c.Metrics.Path = "/" },
			wantErr: "root path",
		},
		{
			name: "debug in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.App.LogLevel = "debug"
			},
			wantErr: "production",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "staging"}}
	if !cfg.IsStaging() || cfg.IsProduction() || cfg.IsDevelopment() {
		t.Errorf("unexpected environment helpers for staging")
	}
}
