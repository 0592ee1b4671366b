// Package config provides configuration management for the prop ensemble.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Ensemble EnsembleConfig `mapstructure:"ensemble" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Batch    BatchConfig    `mapstructure:"batch" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// WeightsConfig represents each model's share of the blend before normalization
type WeightsConfig struct {
	Deterministic float64 `mapstructure:"deterministic" validate:"gte=0"`
	Empirical     float64 `mapstructure:"empirical" validate:"gte=0"`
	Regression    float64 `mapstructure:"regression" validate:"gte=0"`
	Market        float64 `mapstructure:"market" validate:"gte=0"`
	Bayesian      float64 `mapstructure:"bayesian" validate:"gte=0"`
}

// Sum returns the total of all configured weights
func (w WeightsConfig) Sum() float64 {
	return w.Deterministic + w.Empirical + w.Regression + w.Market + w.Bayesian
}

// EnsembleConfig represents blending and bet decision configuration
type EnsembleConfig struct {
	Weights                   WeightsConfig `mapstructure:"weights"`
	MinExpectedValue          float64       `mapstructure:"min_expected_value" validate:"gte=0"`
	MinConfidence             float64       `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	DefaultOdds               float64       `mapstructure:"default_odds" validate:"required,gt=1"`
	DisagreementThreshold     float64       `mapstructure:"disagreement_threshold" validate:"gte=0"`
	DisagreementSlope         float64       `mapstructure:"disagreement_slope" validate:"gte=0"`
	DisagreementFloor         float64       `mapstructure:"disagreement_floor" validate:"required,gt=0,lte=1"`
	MarketDivergenceThreshold float64       `mapstructure:"market_divergence_threshold" validate:"gte=0"`
	MarketDivergencePenalty   float64       `mapstructure:"market_divergence_penalty" validate:"required,gt=0,lte=1"`
}

// CacheConfig represents result cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"gte=0"`
}

// TTL returns the cache entry lifetime
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// BatchConfig represents batch scoring configuration
type BatchConfig struct {
	Workers int `mapstructure:"workers" validate:"required,gt=0,lte=256"`
}

// ServerConfig represents the HTTP scoring server configuration
type ServerConfig struct {
	Port              int     `mapstructure:"port" validate:"required,min=1,max=65535"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int     `mapstructure:"burst" validate:"required,gt=0"`
	MaxBatchSize      int     `mapstructure:"max_batch_size" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
