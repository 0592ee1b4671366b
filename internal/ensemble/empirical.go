package ensemble

import (
	"fmt"
	"math"

	"github.com/yourusername/prop-ensemble/internal/models"
)

const (
	defaultTargetMinutes  = 30.0
	minutesTolerance      = 0.20
	minFilteredGames      = 5
	fallbackSampleSize    = 30
	maxEmpiricalSample    = 50
	strongFilteredSample  = 10
	empiricalConfidence   = 0.6
	empiricalFallbackConf = 0.4
)

// EmpiricalModel is a nonparametric hit rate over games with similar minutes
type EmpiricalModel struct{}

// Name returns the model name
func (EmpiricalModel) Name() string { return ModelEmpirical }

// Predict returns the median and the fraction of games strictly above the line
func (m EmpiricalModel) Predict(input *models.ModelInput) models.ModelOutput {
	if len(input.GameLog) == 0 {
		return degraded(m.Name(), models.FailureInsufficientData, "empty game log")
	}

	target := models.OptionalValue(input.ProjectedMinutes, defaultTargetMinutes)
	filtered := make([]models.GameLogEntry, 0, len(input.GameLog))
	for _, g := range input.GameLog {
		if math.Abs(g.Minutes-target) <= target*minutesTolerance {
			filtered = append(filtered, g)
		}
	}

	sample := filtered
	source := fmt.Sprintf("%d games within 20%% of %.1f minutes", len(filtered), target)
	if len(filtered) < minFilteredGames {
		sample = firstN(input.GameLog, fallbackSampleSize)
		source = fmt.Sprintf("only %d minutes-matched games, using last %d unfiltered", len(filtered), len(sample))
	}
	sample = firstN(sample, maxEmpiricalSample)
	if len(sample) == 0 {
		return degraded(m.Name(), models.FailureInsufficientData, "empty working sample")
	}

	values := input.StatType.Values(sample)
	expected := median(values)
	hitRate := fractionAbove(values, input.Line)

	confidence := empiricalFallbackConf
	if len(filtered) >= strongFilteredSample {
		confidence = empiricalConfidence
	}

	return models.ModelOutput{
		ModelName:       m.Name(),
		ExpectedValue:   expected,
		ProbabilityOver: hitRate,
		Confidence:      confidence,
		Reasons: []string{
			source,
			fmt.Sprintf("median %.2f, hit rate %.3f over %d games", expected, hitRate, len(sample)),
		},
		Metadata: map[string]any{
			"target_minutes": target,
			"filtered_games": len(filtered),
			"sample_size":    len(sample),
		},
	}
}
