package models

import (
	"sort"

	"github.com/google/uuid"
)

// Recommendation is the side the ensemble leans toward
type Recommendation string

// Recommendations
const (
	RecommendOver  Recommendation = "OVER"
	RecommendUnder Recommendation = "UNDER"
	RecommendPass  Recommendation = "PASS"
)

// ModelOutput is a single estimator's verdict on a ModelInput
type ModelOutput struct {
	ModelName       string         `json:"model_name"`
	ExpectedValue   float64        `json:"expected_value"`
	ProbabilityOver float64        `json:"probability_over" validate:"gte=0,lte=1"`
	Confidence      float64        `json:"confidence" validate:"gte=0,lte=1"`
	Weight          float64        `json:"weight" validate:"gte=0,lte=1"`
	Failure         FailureKind    `json:"failure,omitempty"`
	Reasons         []string       `json:"reasons"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Degraded reports whether the model fell back to a zero-confidence sentinel
func (o ModelOutput) Degraded() bool {
	return o.Failure != FailureNone
}

// EnsembleResult is the blended verdict of every model for one input
type EnsembleResult struct {
	EvaluationID      uuid.UUID              `json:"evaluation_id"`
	PlayerName        string                 `json:"player_name"`
	StatType          StatType               `json:"stat_type"`
	Line              float64                `json:"line"`
	FinalProjection   float64                `json:"final_projection"`
	FinalProbability  float64                `json:"final_probability"`
	BaseConfidence    float64                `json:"base_confidence"`
	ConfidenceScore   float64                `json:"confidence_score"`
	DisagreementLevel float64                `json:"disagreement_level"`
	Odds              float64                `json:"odds"`
	ExpectedValue     float64                `json:"expected_value"`
	Edge              float64                `json:"edge"`
	KellyFraction     float64                `json:"kelly_fraction"`
	IsBet             bool                   `json:"is_bet"`
	Recommendation    Recommendation         `json:"recommendation"`
	ModelOutputs      map[string]ModelOutput `json:"model_outputs"`
	Notes             []string               `json:"notes"`
}

// DegradedModels lists, sorted, the models that returned a failure sentinel
func (r *EnsembleResult) DegradedModels() []string {
	var names []string
	for name, out := range r.ModelOutputs {
		if out.Degraded() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
