package ensemble

import (
	"fmt"

	"github.com/yourusername/prop-ensemble/internal/models"
)

const (
	rateWindow              = 20
	minutesWindow           = 5
	leaguePace              = 100.0
	leagueDefRating         = 115.0
	defaultCV               = 0.5
	deterministicConfidence = 0.7
)

// DeterministicModel projects rate x minutes x pace x opponent strength
type DeterministicModel struct{}

// Name returns the model name
func (DeterministicModel) Name() string { return ModelDeterministic }

// Predict projects the stat from a time-decayed per-minute rate
func (m DeterministicModel) Predict(input *models.ModelInput) models.ModelOutput {
	window := firstN(playedGames(input.GameLog), rateWindow)
	if len(window) == 0 {
		return degraded(m.Name(), models.FailureInsufficientData, "no games with positive minutes")
	}

	rate := decayedRate(window, input.StatType)

	minutes := mean(minutesOf(firstN(window, minutesWindow)))
	minutesSource := "recent average"
	if input.ProjectedMinutes != nil {
		minutes = *input.ProjectedMinutes
		minutesSource = "projected"
	}

	paceFactor := 1.0
	if input.TeamPace != nil && input.OpponentPace != nil {
		paceFactor = ((*input.TeamPace + *input.OpponentPace) / 2) / leaguePace
	}
	oppFactor := 1.0
	if input.OpponentDefRating != nil {
		oppFactor = *input.OpponentDefRating / leagueDefRating
	}

	projection := rate * minutes * paceFactor * oppFactor
	cv := coefficientOfVariation(input.StatType.Values(window), defaultCV)
	std := projection * cv
	probability := probabilityOver(projection, std, input.Line)

	return models.ModelOutput{
		ModelName:       m.Name(),
		ExpectedValue:   projection,
		ProbabilityOver: probability,
		Confidence:      deterministicConfidence,
		Reasons: []string{
			fmt.Sprintf("rate %.3f/min over %d games", rate, len(window)),
			fmt.Sprintf("%.1f minutes (%s)", minutes, minutesSource),
			fmt.Sprintf("pace factor %.3f, opponent factor %.3f", paceFactor, oppFactor),
		},
		Metadata: map[string]any{
			"rate":          rate,
			"minutes":       minutes,
			"pace_factor":   paceFactor,
			"opp_factor":    oppFactor,
			"cv":            cv,
			"projected_std": std,
			"games_used":    len(window),
		},
	}
}

// decayedRate weights game i (0 = most recent) by N-i
func decayedRate(window []models.GameLogEntry, stat models.StatType) float64 {
	n := len(window)
	weighted, totalWeight := 0.0, 0.0
	for i, g := range window {
		w := float64(n - i)
		weighted += w * stat.Value(g) / g.Minutes
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

func minutesOf(games []models.GameLogEntry) []float64 {
	values := make([]float64, len(games))
	for i, g := range games {
		values[i] = g.Minutes
	}
	return values
}
