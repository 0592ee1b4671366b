// Package config provides configuration management for the prop ensemble.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override
const EnvPrefix = "PROP_ENSEMBLE"

// DefaultConfigPath is used when no path is supplied
const DefaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for every field.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	SetDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// SetDefaults registers the default value of every configuration key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "prop-ensemble")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("ensemble.weights.deterministic", 0.45)
	v.SetDefault("ensemble.weights.empirical", 0.25)
	v.SetDefault("ensemble.weights.regression", 0.20)
	v.SetDefault("ensemble.weights.market", 0.10)
	v.SetDefault("ensemble.weights.bayesian", 0.05)
	v.SetDefault("ensemble.min_expected_value", 0.05)
	v.SetDefault("ensemble.min_confidence", 0.6)
	v.SetDefault("ensemble.default_odds", 1.91)
	v.SetDefault("ensemble.disagreement_threshold", 0.10)
	v.SetDefault("ensemble.disagreement_slope", 2.0)
	v.SetDefault("ensemble.disagreement_floor", 0.5)
	v.SetDefault("ensemble.market_divergence_threshold", 0.15)
	v.SetDefault("ensemble.market_divergence_penalty", 0.8)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.max_size", 10000)

	v.SetDefault("batch.workers", 8)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.requests_per_second", 50.0)
	v.SetDefault("server.burst", 100)
	v.SetDefault("server.max_batch_size", 500)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
