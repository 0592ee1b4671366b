package ensemble

import (
	"fmt"
	"math"

	"github.com/yourusername/prop-ensemble/internal/models"
)

const (
	priorWindow        = 50
	evidenceWindow     = 5
	minPriorStd        = 1.0
	priorStdFallback   = 0.5
	bayesianConfidence = 0.9
	stdEpsilon         = 1e-9
)

// BayesianModel updates a long-run prior with the last few games using
// Normal-Normal conjugacy
type BayesianModel struct{}

// Name returns the model name
func (BayesianModel) Name() string { return ModelBayesian }

// Predict returns the posterior mean and the predictive P(over)
func (m BayesianModel) Predict(input *models.ModelInput) models.ModelOutput {
	if len(input.GameLog) == 0 {
		return degraded(m.Name(), models.FailureInsufficientData, "empty game log")
	}

	priorValues := input.StatType.Values(firstN(input.GameLog, priorWindow))
	priorMean, priorStd := meanStd(priorValues)
	if len(priorValues) < 2 || priorStd < stdEpsilon {
		priorStd = math.Max(minPriorStd, priorMean*priorStdFallback)
	}

	evidence := input.StatType.Values(firstN(input.GameLog, evidenceWindow))
	evidenceMean := mean(evidence)

	observationVariance := priorStd * priorStd
	priorPrecision := 1 / observationVariance
	dataPrecision := float64(len(evidence)) / observationVariance
	posteriorVariance := 1 / (priorPrecision + dataPrecision)
	posteriorMean := posteriorVariance * (priorMean*priorPrecision + evidenceMean*dataPrecision)

	predictiveStd := math.Sqrt(posteriorVariance + observationVariance)
	probability := probabilityOver(posteriorMean, predictiveStd, input.Line)

	return models.ModelOutput{
		ModelName:       m.Name(),
		ExpectedValue:   posteriorMean,
		ProbabilityOver: probability,
		Confidence:      bayesianConfidence,
		Reasons: []string{
			fmt.Sprintf("prior %.2f±%.2f over %d games", priorMean, priorStd, len(priorValues)),
			fmt.Sprintf("evidence %.2f over last %d games, posterior %.2f", evidenceMean, len(evidence), posteriorMean),
		},
		Metadata: map[string]any{
			"prior_mean":         priorMean,
			"prior_std":          priorStd,
			"evidence_mean":      evidenceMean,
			"posterior_mean":     posteriorMean,
			"posterior_variance": posteriorVariance,
			"predictive_std":     predictiveStd,
		},
	}
}
