package ensemble

import (
	"time"

	"github.com/yourusername/prop-ensemble/internal/models"
)

var testEnd = time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)

// pointsLog builds a most-recent-first log two days apart with the given
// points and a fixed minutes value
func pointsLog(minutes float64, points ...float64) []models.GameLogEntry {
	games := make([]models.GameLogEntry, len(points))
	for i, p := range points {
		games[i] = models.GameLogEntry{
			Date:    testEnd.AddDate(0, 0, -2*i),
			IsHome:  i%2 == 0,
			Minutes: minutes,
			Points:  p,
		}
	}
	return games
}

func repeat(v float64, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return values
}

func pointsInput(line float64, games []models.GameLogEntry) *models.ModelInput {
	return &models.ModelInput{
		PlayerName: "Test Player",
		StatType:   models.StatPoints,
		Line:       line,
		GameLog:    games,
		AsOf:       testEnd.AddDate(0, 0, 2),
	}
}

type stubModel struct {
	name string
	out  models.ModelOutput
}

func (s stubModel) Name() string { return s.name }

func (s stubModel) Predict(*models.ModelInput) models.ModelOutput {
	out := s.out
	out.ModelName = s.name
	return out
}

// stubs returns one stub per model name, each producing out
func stubs(out models.ModelOutput) []Model {
	estimators := make([]Model, 0, len(ModelNames))
	for _, name := range ModelNames {
		estimators = append(estimators, stubModel{name: name, out: out})
	}
	return estimators
}
