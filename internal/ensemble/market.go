package ensemble

import (
	"fmt"

	"github.com/yourusername/prop-ensemble/internal/models"
)

const (
	marketConfidence   = 0.8
	denominatorEpsilon = 1e-9
)

// MarketModel backs out the mean the market is pricing in. When no implied
// probability is supplied it uses 1/odds, which still contains the bookmaker
// margin; that approximation is kept as-is.
type MarketModel struct{}

// Name returns the model name
func (MarketModel) Name() string { return ModelMarket }

// Predict inverts the normal model at the market's implied P(over)
func (m MarketModel) Predict(input *models.ModelInput) models.ModelOutput {
	if input.MarketOdds == nil || *input.MarketOdds <= 1.0 {
		return degraded(m.Name(), models.FailureInvalidMarketInput, "market odds missing or not above 1.0")
	}
	odds := *input.MarketOdds

	probOver := 1.0 / odds
	source := "1/odds"
	if p := input.ImpliedProbability; p != nil && *p > 0 && *p < 1 {
		probOver = *p
		source = "supplied implied probability"
	}

	cv := coefficientOfVariation(input.StatType.Values(playedGames(input.GameLog)), defaultCV)
	z := inverseNormalCDF(1 - probOver)
	denominator := 1 + z*cv
	if denominator == 0 {
		denominator = denominatorEpsilon
	}
	impliedMean := input.Line / denominator

	return models.ModelOutput{
		ModelName:       m.Name(),
		ExpectedValue:   impliedMean,
		ProbabilityOver: probOver,
		Confidence:      marketConfidence,
		Reasons: []string{
			fmt.Sprintf("market P(over) %.3f from %s at odds %.3f", probOver, source, odds),
			fmt.Sprintf("implied mean %.2f with CV %.3f", impliedMean, cv),
		},
		Metadata: map[string]any{
			"implied_probability": probOver,
			"implied_mean":        impliedMean,
			"z":                   z,
			"cv":                  cv,
		},
	}
}
