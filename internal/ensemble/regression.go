package ensemble

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yourusername/prop-ensemble/internal/models"
)

const (
	minRegressionGames   = 10
	minTrainingRows      = 5
	maxRestDays          = 5.0
	regressionConfidence = 0.5
	hoursPerDay          = 24.0
)

// RegressionModel fits OLS of the stat on minutes, home flag and rest days
type RegressionModel struct{}

// Name returns the model name
func (RegressionModel) Name() string { return ModelRegression }

// Predict trains on the player's log and predicts the upcoming game
func (m RegressionModel) Predict(input *models.ModelInput) models.ModelOutput {
	if len(input.GameLog) < minRegressionGames {
		return degraded(m.Name(), models.FailureInsufficientData,
			"regression needs %d games, have %d", minRegressionGames, len(input.GameLog))
	}

	training := playedGames(input.GameLog)
	sort.SliceStable(training, func(i, j int) bool {
		return training[i].Date.Before(training[j].Date)
	})
	if len(training) < minTrainingRows {
		return degraded(m.Name(), models.FailureInsufficientData,
			"only %d training rows with positive minutes", len(training))
	}

	x := make([][]float64, len(training))
	y := make([]float64, len(training))
	for i, g := range training {
		rest := maxRestDays
		if i > 0 {
			rest = restDays(training[i-1].Date, g.Date)
		}
		x[i] = featureRow(g.Minutes, g.IsHome, rest)
		y[i] = input.StatType.Value(g)
	}

	xtx, xty := normalEquations(x, y)
	beta, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return degraded(m.Name(), models.FailureSingularTraining, "training failed: %v", err)
	}

	sumSquares := 0.0
	for i := range x {
		residual := y[i] - dot(beta, x[i])
		sumSquares += residual * residual
	}
	rmse := math.Sqrt(sumSquares / float64(len(x)))

	minutes := models.OptionalValue(input.ProjectedMinutes, defaultTargetMinutes)
	rest := restDays(training[len(training)-1].Date, input.AsOf)
	prediction := dot(beta, featureRow(minutes, input.IsHome, rest))
	probability := probabilityOver(prediction, rmse, input.Line)

	return models.ModelOutput{
		ModelName:       m.Name(),
		ExpectedValue:   prediction,
		ProbabilityOver: probability,
		Confidence:      regressionConfidence,
		Reasons: []string{
			fmt.Sprintf("OLS over %d games, RMSE %.2f", len(x), rmse),
			fmt.Sprintf("predicting %.1f minutes, home=%t, %.0f rest days", minutes, input.IsHome, rest),
		},
		Metadata: map[string]any{
			"intercept":     beta[0],
			"beta_minutes":  beta[1],
			"beta_home":     beta[2],
			"beta_rest":     beta[3],
			"rmse":          rmse,
			"rest_days":     rest,
			"training_rows": len(x),
		},
	}
}

func featureRow(minutes float64, home bool, rest float64) []float64 {
	homeFlag := 0.0
	if home {
		homeFlag = 1.0
	}
	return []float64{1.0, minutes, homeFlag, rest}
}

// restDays counts whole days between two dates, clamped to [0, maxRestDays]
func restDays(previous, current time.Time) float64 {
	days := math.Floor(current.Sub(previous).Hours() / hoursPerDay)
	if days < 0 {
		return 0
	}
	return math.Min(days, maxRestDays)
}
