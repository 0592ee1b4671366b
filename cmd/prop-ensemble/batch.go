package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/prop-ensemble/internal/models"
	"github.com/yourusername/prop-ensemble/internal/service"
)

var batchInput string

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "-", "JSON file holding an array of props or {\"items\": [...]}, - for stdin")
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score many props concurrently",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openInput(batchInput)
		if err != nil {
			return err
		}
		defer r.Close()

		requests, err := decodeBatch(r)
		if err != nil {
			return err
		}

		inputs := make([]*models.ModelInput, len(requests))
		for i := range requests {
			input, err := requests[i].Resolve()
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			inputs[i] = input
		}

		items, err := scoring.ScoreBatch(cmd.Context(), inputs)
		if err != nil {
			return err
		}

		resp := service.BatchResponse{Items: items}
		for _, item := range items {
			if item.Err != nil {
				resp.Failed++
			} else {
				resp.Scored++
			}
		}
		return writeJSON(cmd.OutOrStdout(), resp)
	},
}

// decodeBatch accepts either a bare array or a BatchRequest object
func decodeBatch(r io.Reader) ([]service.ScoreRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var requests []service.ScoreRequest
		if err := json.Unmarshal(data, &requests); err != nil {
			return nil, fmt.Errorf("failed to decode batch: %w", err)
		}
		return requests, nil
	}

	var req service.BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %w", err)
	}
	return req.Items, nil
}
