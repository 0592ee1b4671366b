package ensemble

import (
	"fmt"

	"github.com/yourusername/prop-ensemble/internal/config"
)

// Weights holds each model's share of the blend
type Weights struct {
	Deterministic float64 `json:"deterministic"`
	Empirical     float64 `json:"empirical"`
	Regression    float64 `json:"regression"`
	Market        float64 `json:"market"`
	Bayesian      float64 `json:"bayesian"`
}

// DefaultWeights returns the reference blend
func DefaultWeights() Weights {
	return Weights{
		Deterministic: 0.45,
		Empirical:     0.25,
		Regression:    0.20,
		Market:        0.10,
		Bayesian:      0.05,
	}
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.Deterministic + w.Empirical + w.Regression + w.Market + w.Bayesian
}

// Normalized divides every weight by the sum so they total 1
func (w Weights) Normalized() (Weights, error) {
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	total := w.Sum()
	return Weights{
		Deterministic: w.Deterministic / total,
		Empirical:     w.Empirical / total,
		Regression:    w.Regression / total,
		Market:        w.Market / total,
		Bayesian:      w.Bayesian / total,
	}, nil
}

// Validate rejects negative weights and an all-zero blend
func (w Weights) Validate() error {
	for name, v := range w.byName() {
		if v < 0 {
			return fmt.Errorf("weight for %s cannot be negative", name)
		}
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("weights must sum to a positive value")
	}
	return nil
}

// For returns the weight of the named model
func (w Weights) For(name string) float64 {
	return w.byName()[name]
}

func (w Weights) byName() map[string]float64 {
	return map[string]float64{
		ModelDeterministic: w.Deterministic,
		ModelEmpirical:     w.Empirical,
		ModelRegression:    w.Regression,
		ModelMarket:        w.Market,
		ModelBayesian:      w.Bayesian,
	}
}

// Config holds the ensemble's blending and decision parameters
type Config struct {
	Weights                   Weights
	MinExpectedValue          float64
	MinConfidence             float64
	DefaultOdds               float64
	DisagreementThreshold     float64
	DisagreementSlope         float64
	DisagreementFloor         float64
	MarketDivergenceThreshold float64
	MarketDivergencePenalty   float64
}

// DefaultConfig returns the reference decision policy
func DefaultConfig() Config {
	return Config{
		Weights:                   DefaultWeights(),
		MinExpectedValue:          0.05,
		MinConfidence:             0.6,
		DefaultOdds:               1.91,
		DisagreementThreshold:     0.10,
		DisagreementSlope:         2.0,
		DisagreementFloor:         0.5,
		MarketDivergenceThreshold: 0.15,
		MarketDivergencePenalty:   0.8,
	}
}

// FromConfig converts app config to ensemble config
func FromConfig(cfg *config.EnsembleConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("ensemble config is required")
	}
	ec := Config{
		Weights: Weights{
			Deterministic: cfg.Weights.Deterministic,
			Empirical:     cfg.Weights.Empirical,
			Regression:    cfg.Weights.Regression,
			Market:        cfg.Weights.Market,
			Bayesian:      cfg.Weights.Bayesian,
		},
		MinExpectedValue:          cfg.MinExpectedValue,
		MinConfidence:             cfg.MinConfidence,
		DefaultOdds:               cfg.DefaultOdds,
		DisagreementThreshold:     cfg.DisagreementThreshold,
		DisagreementSlope:         cfg.DisagreementSlope,
		DisagreementFloor:         cfg.DisagreementFloor,
		MarketDivergenceThreshold: cfg.MarketDivergenceThreshold,
		MarketDivergencePenalty:   cfg.MarketDivergencePenalty,
	}
	return ec, ec.Validate()
}

// Validate validates ensemble parameters
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min confidence must be between 0 and 1")
	}
	if c.DefaultOdds <= 1.0 {
		return fmt.Errorf("default odds must be greater than 1.0")
	}
	if c.DisagreementThreshold < 0 {
		return fmt.Errorf("disagreement threshold cannot be negative")
	}
	if c.DisagreementSlope < 0 {
		return fmt.Errorf("disagreement slope cannot be negative")
	}
	if c.DisagreementFloor <= 0 || c.DisagreementFloor > 1 {
		return fmt.Errorf("disagreement floor must be in (0, 1]")
	}
	if c.MarketDivergenceThreshold < 0 {
		return fmt.Errorf("market divergence threshold cannot be negative")
	}
	if c.MarketDivergencePenalty <= 0 || c.MarketDivergencePenalty > 1 {
		return fmt.Errorf("market divergence penalty must be in (0, 1]")
	}
	return nil
}
