package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/prop-ensemble/internal/fixtures"
	"github.com/yourusername/prop-ensemble/internal/models"
)

var (
	simGames   int
	simMean    float64
	simStd     float64
	simMinutes float64
	simSeed    int64
	simLine    float64
	simOdds    float64
	simStat    string
	simPlayer  string
)

func init() {
	defaults := fixtures.DefaultGameLogSpec()
	simulateCmd.Flags().IntVar(&simGames, "games", defaults.Games, "Number of synthetic games")
	simulateCmd.Flags().Float64Var(&simMean, "mean", defaults.Mean, "Mean of the stat")
	simulateCmd.Flags().Float64Var(&simStd, "std", defaults.Std, "Standard deviation of the stat")
	simulateCmd.Flags().Float64Var(&simMinutes, "minutes", defaults.MinutesMean, "Mean minutes per game")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", defaults.Seed, "Random seed")
	simulateCmd.Flags().Float64Var(&simLine, "line", 24.5, "Line to score")
	simulateCmd.Flags().Float64Var(&simOdds, "odds", 0, "Decimal market odds for the over, 0 for none")
	simulateCmd.Flags().StringVar(&simStat, "stat", string(defaults.StatType), "Stat type")
	simulateCmd.Flags().StringVar(&simPlayer, "player", "Synthetic Player", "Player name")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate a seeded synthetic game log and score it",
	RunE: func(cmd *cobra.Command, args []string) error {
		stat, err := models.ParseStatType(simStat)
		if err != nil {
			return err
		}
		if simGames <= 0 {
			return fmt.Errorf("games must be positive, got %d", simGames)
		}

		spec := fixtures.DefaultGameLogSpec()
		spec.Games = simGames
		spec.StatType = stat
		spec.Mean = simMean
		spec.Std = simStd
		spec.MinutesMean = simMinutes
		spec.Seed = simSeed

		input := fixtures.Input(spec, simPlayer, simLine)
		if simOdds > 0 {
			input.MarketOdds = models.Float64(simOdds)
		}

		result, err := scoring.Score(cmd.Context(), input)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}
