package ensemble

import (
	"fmt"
	"math"
	"time"

	"github.com/yourusername/prop-ensemble/internal/models"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock used when an input carries no AsOf moment.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Orchestrator runs every model against an input and blends their outputs.
// It is immutable after construction and safe for concurrent use.
type Orchestrator struct {
	config  Config
	weights Weights
	models  []Model
	now     func() time.Time
}

// New builds an orchestrator over the five reference models. Weights are
// normalized once here.
func New(cfg Config, opts ...Option) (*Orchestrator, error) {
	return newOrchestrator(cfg, []Model{
		DeterministicModel{},
		EmpiricalModel{},
		RegressionModel{},
		MarketModel{},
		BayesianModel{},
	}, opts...)
}

func newOrchestrator(cfg Config, estimators []Model, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ensemble config: %w", err)
	}
	weights, err := cfg.Weights.Normalized()
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		config:  cfg,
		weights: weights,
		models:  estimators,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Weights returns the normalized model weights
func (o *Orchestrator) Weights() Weights {
	return o.weights
}

// Config returns the configuration the orchestrator was built with
func (o *Orchestrator) Config() Config {
	return o.config
}

// Evaluate scores one input. It never fails: degraded models contribute
// their zero-confidence sentinel to the blend at their configured weight.
func (o *Orchestrator) Evaluate(input *models.ModelInput) models.EnsembleResult {
	if input == nil {
		input = &models.ModelInput{}
	}
	in := *input
	if in.AsOf.IsZero() {
		in.AsOf = o.now()
	}

	outputs := make(map[string]models.ModelOutput, len(o.models))
	ordered := make([]models.ModelOutput, 0, len(o.models))
	for _, m := range o.models {
		out := m.Predict(&in)
		out.Weight = o.weights.For(m.Name())
		outputs[m.Name()] = out
		ordered = append(ordered, out)
	}

	result := models.EnsembleResult{
		EvaluationID: input.Fingerprint(),
		PlayerName:   in.PlayerName,
		StatType:     in.StatType,
		Line:         in.Line,
		ModelOutputs: outputs,
	}

	for _, out := range ordered {
		result.FinalProjection += out.ExpectedValue * out.Weight
		result.FinalProbability += out.ProbabilityOver * out.Weight
		result.BaseConfidence += out.Confidence * out.Weight
		result.Notes = append(result.Notes, describeOutput(out))
	}
	result.FinalProbability = clampProbability(result.FinalProbability)
	result.DisagreementLevel = disagreementLevel(ordered)

	confidence := result.BaseConfidence
	if result.DisagreementLevel > o.config.DisagreementThreshold {
		factor := math.Max(o.config.DisagreementFloor,
			1.0-(result.DisagreementLevel-o.config.DisagreementThreshold)*o.config.DisagreementSlope)
		confidence *= factor
		result.Notes = append(result.Notes, fmt.Sprintf(
			"models disagree (CV %.3f > %.2f): confidence x%.2f", result.DisagreementLevel, o.config.DisagreementThreshold, factor))
	}

	if market, ok := outputs[ModelMarket]; ok && !market.Degraded() && result.FinalProjection > 0 {
		divergence := math.Abs(market.ExpectedValue-result.FinalProjection) / result.FinalProjection
		if divergence > o.config.MarketDivergenceThreshold {
			confidence *= o.config.MarketDivergencePenalty
			result.Notes = append(result.Notes, fmt.Sprintf(
				"fighting the market: implied mean %.2f vs projection %.2f (%.0f%% apart), confidence x%.2f",
				market.ExpectedValue, result.FinalProjection, divergence*100, o.config.MarketDivergencePenalty))
		}
	}
	result.ConfidenceScore = confidence

	result.Odds = o.config.DefaultOdds
	if in.MarketOdds != nil && *in.MarketOdds > 1.0 {
		result.Odds = *in.MarketOdds
	}
	result.ExpectedValue = expectedValue(result.FinalProbability, result.Odds)
	result.Edge = result.FinalProbability - 1.0/result.Odds
	result.KellyFraction = halfKelly(result.FinalProbability, result.Odds)
	result.IsBet = result.ExpectedValue > o.config.MinExpectedValue && confidence > o.config.MinConfidence
	result.Recommendation = o.recommend(&in, result)
	result.Notes = append(result.Notes, describeDecision(result, o.config))

	return result
}

// recommend picks OVER when the bet clears, UNDER when the under side clears
// the same gates at its own price, PASS otherwise
func (o *Orchestrator) recommend(in *models.ModelInput, result models.EnsembleResult) models.Recommendation {
	if result.IsBet {
		return models.RecommendOver
	}
	underOdds := result.Odds
	if in.UnderOdds != nil && *in.UnderOdds > 1.0 {
		underOdds = *in.UnderOdds
	}
	underEV := expectedValue(1-result.FinalProbability, underOdds)
	if underEV > o.config.MinExpectedValue && result.ConfidenceScore > o.config.MinConfidence {
		return models.RecommendUnder
	}
	return models.RecommendPass
}

// disagreementLevel is the coefficient of variation across model projections.
// It is zero when the mean is not positive or fewer than two models produced
// a non-zero projection.
func disagreementLevel(outputs []models.ModelOutput) float64 {
	values := make([]float64, len(outputs))
	nonZero := 0
	for i, out := range outputs {
		values[i] = out.ExpectedValue
		if out.ExpectedValue != 0 {
			nonZero++
		}
	}
	if nonZero < 2 {
		return 0
	}
	m, std := meanStd(values)
	if m <= 0 {
		return 0
	}
	return std / m
}

// expectedValue is the profit of a unit stake at decimal odds
func expectedValue(probability, odds float64) float64 {
	return probability*(odds-1) - (1 - probability)
}

func halfKelly(probability, odds float64) float64 {
	b := odds - 1
	if b <= 0 {
		return 0
	}
	kelly := (b*probability - (1 - probability)) / b
	if kelly <= 0 {
		return 0
	}
	return kelly * 0.5
}

func describeOutput(out models.ModelOutput) string {
	note := fmt.Sprintf("%s: projection=%.2f p_over=%.3f confidence=%.2f weight=%.2f",
		out.ModelName, out.ExpectedValue, out.ProbabilityOver, out.Confidence, out.Weight)
	if out.Degraded() {
		note += fmt.Sprintf(" [%s]", out.Failure)
	}
	for _, reason := range out.Reasons {
		note += "; " + reason
	}
	return note
}

func describeDecision(result models.EnsembleResult, cfg Config) string {
	verdict := "NO BET"
	if result.IsBet {
		verdict = "BET"
	}
	return fmt.Sprintf("%s: EV %.3f (min %.2f) at odds %.2f, confidence %.3f (min %.2f), recommendation %s",
		verdict, result.ExpectedValue, cfg.MinExpectedValue, result.Odds, result.ConfidenceScore, cfg.MinConfidence, result.Recommendation)
}
