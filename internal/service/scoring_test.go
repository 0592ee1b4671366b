package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-ensemble/internal/cache"
	"github.com/yourusername/prop-ensemble/internal/models"
)

func TestScoreValidInput(t *testing.T) {
	svc := NewScoringService(newOrchestrator(t), nil, 2, quietLogger())

	result, err := svc.Score(context.Background(), sampleInput("Player One", 1))
	require.NoError(t, err)
	assert.Equal(t, "Player One", result.PlayerName)
	assert.Len(t, result.ModelOutputs, 5)
	assert.GreaterOrEqual(t, result.FinalProbability, 0.0)
	assert.LessOrEqual(t, result.FinalProbability, 1.0)
}

func TestScoreRejectsInvalidInput(t *testing.T) {
	svc := NewScoringService(newOrchestrator(t), nil, 2, quietLogger())

	tests := []struct {
		name    string
		mutate  func(*models.ModelInput)
		wantErr error
	}{
		{name: "empty player", mutate: func(in *models.ModelInput) { in.PlayerName = "" }, wantErr: models.ErrEmptyPlayer},
		{name: "unknown stat", mutate: func(in *models.ModelInput) { in.StatType = "goals" }, wantErr: models.ErrUnknownStatType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sampleInput("Player One", 1)
			tt.mutate(input)
			_, err := svc.Score(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScoreHonoursCancellation(t *testing.T) {
	svc := NewScoringService(newOrchestrator(t), nil, 2, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Score(ctx, sampleInput("Player One", 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreUsesCache(t *testing.T) {
	evaluator := &countingEvaluator{next: newOrchestrator(t)}
	resultCache := cache.NewResultCache(time.Hour, 100)
	svc := NewScoringService(evaluator, resultCache, 2, quietLogger())

	ctx := context.Background()
	first, err := svc.Score(ctx, sampleInput("Player One", 1))
	require.NoError(t, err)
	second, err := svc.Score(ctx, sampleInput("Player One", 1))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), evaluator.calls.Load())
	hits, misses, _ := resultCache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	_, err = svc.Score(ctx, sampleInput("Player Two", 2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), evaluator.calls.Load())
}

func TestScoreNormalizesGameLogOrder(t *testing.T) {
	svc := NewScoringService(newOrchestrator(t), nil, 2, quietLogger())
	ctx := context.Background()

	ordered := sampleInput("Player One", 3)
	reversed := sampleInput("Player One", 3)
	n := len(reversed.GameLog)
	for i := 0; i < n/2; i++ {
		reversed.GameLog[i], reversed.GameLog[n-1-i] = reversed.GameLog[n-1-i], reversed.GameLog[i]
	}

	want, err := svc.Score(ctx, ordered)
	require.NoError(t, err)
	got, err := svc.Score(ctx, reversed)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	// caller's slice is left alone
	assert.False(t, models.IsMostRecentFirst(reversed.GameLog))
}

func TestScoreBatch(t *testing.T) {
	svc := NewScoringService(newOrchestrator(t), nil, 4, quietLogger())

	inputs := make([]*models.ModelInput, 10)
	for i := range inputs {
		inputs[i] = sampleInput(fmt.Sprintf("Player %d", i), int64(i+1))
	}
	inputs[3].PlayerName = ""

	items, err := svc.ScoreBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, items, 10)

	for i, item := range items {
		assert.Equal(t, i, item.Index)
		if i == 3 {
			assert.ErrorIs(t, item.Err, models.ErrEmptyPlayer)
			assert.NotEmpty(t, item.Error)
			assert.Nil(t, item.Result)
			continue
		}
		require.NoError(t, item.Err)
		require.NotNil(t, item.Result)
		assert.Equal(t, fmt.Sprintf("Player %d", i), item.Result.PlayerName)
	}
}

func TestScoreBatchBoundsConcurrency(t *testing.T) {
	evaluator := &countingEvaluator{next: newOrchestrator(t), delay: 10 * time.Millisecond}
	svc := NewScoringService(evaluator, nil, 3, quietLogger())

	inputs := make([]*models.ModelInput, 12)
	for i := range inputs {
		inputs[i] = sampleInput(fmt.Sprintf("Player %d", i), int64(i+1))
	}

	_, err := svc.ScoreBatch(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, int64(12), evaluator.calls.Load())
	assert.LessOrEqual(t, evaluator.peak(), 3)
}

func TestScoreBatchCancelled(t *testing.T) {
	svc := NewScoringService(newOrchestrator(t), nil, 2, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := svc.ScoreBatch(ctx, []*models.ModelInput{sampleInput("A", 1), sampleInput("B", 2)})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.ErrorIs(t, item.Err, context.Canceled)
	}
}
