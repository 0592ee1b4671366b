// Package fixtures generates reproducible synthetic game logs.
package fixtures

import (
	"math"
	"math/rand"
	"time"

	"github.com/yourusername/prop-ensemble/internal/models"
)

// GameLogSpec describes the distribution a synthetic log is drawn from
type GameLogSpec struct {
	Games       int
	StatType    models.StatType
	Mean        float64
	Std         float64
	MinutesMean float64
	MinutesStd  float64
	// End is the date of the most recent game
	End  time.Time
	Seed int64
}

// DefaultGameLogSpec returns a 50 game points log around 25 +/- 5
func DefaultGameLogSpec() GameLogSpec {
	return GameLogSpec{
		Games:       50,
		StatType:    models.StatPoints,
		Mean:        25,
		Std:         5,
		MinutesMean: 34,
		MinutesStd:  3,
		End:         time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Seed:        42,
	}
}

// GameLog draws a log ordered most recent first. Dates step back one to four
// days per game, minutes are clamped to [0, 48] and the stat to >= 0.
func GameLog(spec GameLogSpec) []models.GameLogEntry {
	if spec.Games <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(spec.Seed))
	end := spec.End
	if end.IsZero() {
		end = DefaultGameLogSpec().End
	}

	games := make([]models.GameLogEntry, spec.Games)
	date := end
	for i := range games {
		minutes := clamp(spec.MinutesMean+rng.NormFloat64()*spec.MinutesStd, 0, 48)
		value := math.Max(0, spec.Mean+rng.NormFloat64()*spec.Std)

		game := models.GameLogEntry{
			Date:     date,
			Opponent: opponents[rng.Intn(len(opponents))],
			IsHome:   rng.Intn(2) == 0,
			Won:      rng.Intn(2) == 0,
			Minutes:  minutes,
		}
		setStat(&game, spec.StatType, value)
		games[i] = game

		date = date.AddDate(0, 0, -(1 + rng.Intn(4)))
	}
	return games
}

// Input wraps a synthetic log in a ready-to-score input
func Input(spec GameLogSpec, player string, line float64) *models.ModelInput {
	return &models.ModelInput{
		PlayerName: player,
		StatType:   spec.StatType,
		Line:       line,
		GameLog:    GameLog(spec),
		AsOf:       spec.End.AddDate(0, 0, 2),
	}
}

var opponents = []string{"BOS", "DEN", "LAL", "MIA", "MIL", "NYK", "OKC", "PHX"}

// setStat writes value into the field a stat type reads. Combo stats put the
// whole value on points so the accessor sum equals value.
func setStat(g *models.GameLogEntry, stat models.StatType, value float64) {
	switch stat {
	case models.StatRebounds, models.StatReboundsAssists:
		g.Rebounds = value
	case models.StatAssists:
		g.Assists = value
	case models.StatSteals:
		g.Steals = value
	case models.StatBlocks:
		g.Blocks = value
	case models.StatTurnovers:
		g.Turnovers = value
	case models.StatThreePtMade:
		g.ThreePtMade = value
	case models.StatFGMade:
		g.FGMade = value
	case models.StatFGAttempted:
		g.FGAttempted = value
	case models.StatFTMade:
		g.FTMade = value
	case models.StatPlusMinus:
		g.PlusMinus = value
	default:
		g.Points = value
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
