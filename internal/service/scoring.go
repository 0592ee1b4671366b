// Package service provides player prop scoring on top of the ensemble.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/prop-ensemble/internal/cache"
	"github.com/yourusername/prop-ensemble/internal/logger"
	"github.com/yourusername/prop-ensemble/internal/metrics"
	"github.com/yourusername/prop-ensemble/internal/models"
)

// Evaluator blends model outputs for one input
type Evaluator interface {
	Evaluate(input *models.ModelInput) models.EnsembleResult
}

// ScoringService validates inputs, consults the result cache and runs the ensemble
type ScoringService struct {
	evaluator      Evaluator
	cache          *cache.ResultCache
	workers        int
	logger         *logrus.Logger
	ensembleLogger *logger.EnsembleLogger
}

// NewScoringService creates a new scoring service. resultCache may be nil to
// disable caching.
func NewScoringService(
	evaluator Evaluator,
	resultCache *cache.ResultCache,
	workers int,
	log *logrus.Logger,
) *ScoringService {
	if workers <= 0 {
		workers = 1
	}
	return &ScoringService{
		evaluator:      evaluator,
		cache:          resultCache,
		workers:        workers,
		logger:         log,
		ensembleLogger: logger.NewEnsembleLogger(log),
	}
}

// BatchItem is the outcome of one input in a batch
type BatchItem struct {
	Index  int                    `json:"index"`
	Result *models.EnsembleResult `json:"result,omitempty"`
	Err    error                  `json:"-"`
	Error  string                 `json:"error,omitempty"`
}

// Score evaluates a single input
func (s *ScoringService) Score(ctx context.Context, input *models.ModelInput) (models.EnsembleResult, error) {
	if err := ctx.Err(); err != nil {
		return models.EnsembleResult{}, err
	}
	if err := input.Validate(); err != nil {
		return models.EnsembleResult{}, fmt.Errorf("rejected input: %w", err)
	}

	normalized := input
	if !models.IsMostRecentFirst(input.GameLog) {
		s.logger.WithField("player", input.PlayerName).Debug("Reordering game log most recent first")
		normalized = input.WithGameLog(models.SortMostRecentFirst(input.GameLog))
	}

	start := time.Now()
	key := normalized.Fingerprint()
	if s.cache != nil {
		if result, found := s.cache.Get(ctx, key); found {
			s.ensembleLogger.LogEvaluation(result, true, durationMs(start))
			return result, nil
		}
	}

	result := s.evaluator.Evaluate(normalized)
	elapsed := time.Since(start)

	for _, name := range result.DegradedModels() {
		out := result.ModelOutputs[name]
		metrics.RecordModelFailure(name, string(out.Failure))
		s.ensembleLogger.LogDegradedModel(result.PlayerName, out)
	}
	for _, out := range result.ModelOutputs {
		s.ensembleLogger.LogModelOutput(result.PlayerName, out)
	}
	metrics.RecordEvaluation(string(result.StatType), result.IsBet,
		result.ConfidenceScore, result.DisagreementLevel, elapsed.Seconds())

	s.ensembleLogger.LogEvaluation(result, false, durationMs(start))
	s.ensembleLogger.LogBetDecision(result)

	if s.cache != nil {
		s.cache.Set(ctx, key, result)
	}
	return result, nil
}

// ScoreBatch scores every input on a bounded worker pool. A failing item is
// reported in its BatchItem and does not stop the others. The returned error
// is non-nil only when ctx ends before the batch completes.
func (s *ScoringService) ScoreBatch(ctx context.Context, inputs []*models.ModelInput) ([]BatchItem, error) {
	start := time.Now()
	items := make([]BatchItem, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, input := range inputs {
		g.Go(func() error {
			item := BatchItem{Index: i}
			result, err := s.Score(gctx, input)
			if err != nil {
				item.Err = err
				item.Error = err.Error()
				metrics.RecordBatchItem("error")
			} else {
				item.Result = &result
				metrics.RecordBatchItem("ok")
			}
			items[i] = item
			return nil
		})
	}
	_ = g.Wait()

	scored, failed, bets := 0, 0, 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			continue
		}
		scored++
		if item.Result.IsBet {
			bets++
		}
	}
	s.ensembleLogger.LogBatch(len(inputs), scored, failed, bets, durationMs(start))

	if err := ctx.Err(); err != nil {
		return items, fmt.Errorf("batch interrupted: %w", err)
	}
	return items, nil
}

func durationMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
