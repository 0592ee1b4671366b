package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/prop-ensemble/internal/service"
)

var (
	scoreInput      string
	scoreOverPrice  string
	scoreUnderPrice string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreInput, "input", "i", "-", "JSON file holding one prop, - for stdin")
	scoreCmd.Flags().StringVar(&scoreOverPrice, "over-price", "", "Over price in decimal, American or fractional format")
	scoreCmd.Flags().StringVar(&scoreUnderPrice, "under-price", "", "Under price in decimal, American or fractional format")
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single prop read as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openInput(scoreInput)
		if err != nil {
			return err
		}
		defer r.Close()

		var req service.ScoreRequest
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return fmt.Errorf("failed to decode prop: %w", err)
		}
		if scoreOverPrice != "" {
			req.OverPrice = scoreOverPrice
		}
		if scoreUnderPrice != "" {
			req.UnderPrice = scoreUnderPrice
		}

		input, err := req.Resolve()
		if err != nil {
			return err
		}
		result, err := scoring.Score(cmd.Context(), input)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}
