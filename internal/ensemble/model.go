// Package ensemble blends five independent estimators into a calibrated
// probability that a player's stat total clears a betting line.
package ensemble

import (
	"fmt"

	"github.com/yourusername/prop-ensemble/internal/models"
)

// Model names, also used as keys in EnsembleResult.ModelOutputs
const (
	ModelDeterministic = "deterministic"
	ModelEmpirical     = "empirical"
	ModelRegression    = "regression"
	ModelMarket        = "market"
	ModelBayesian      = "bayesian"
)

// ModelNames lists the models in evaluation order
var ModelNames = []string{
	ModelDeterministic,
	ModelEmpirical,
	ModelRegression,
	ModelMarket,
	ModelBayesian,
}

// Model is a single estimator. Predict must never panic and never fail:
// insufficient data yields a zero-confidence output tagged with a FailureKind.
type Model interface {
	Name() string
	Predict(input *models.ModelInput) models.ModelOutput
}

// degraded builds the zero-value sentinel a model returns when it cannot estimate
func degraded(name string, kind models.FailureKind, format string, args ...any) models.ModelOutput {
	return models.ModelOutput{
		ModelName: name,
		Failure:   kind,
		Reasons:   []string{fmt.Sprintf(format, args...)},
	}
}

// playedGames filters to games with positive minutes, preserving order
func playedGames(games []models.GameLogEntry) []models.GameLogEntry {
	played := make([]models.GameLogEntry, 0, len(games))
	for _, g := range games {
		if g.Played() {
			played = append(played, g)
		}
	}
	return played
}
