// Package logger provides ensemble-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-ensemble/internal/models"
)

// EnsembleLogger provides dedicated logging for ensemble evaluations.
type EnsembleLogger struct {
	*logrus.Entry
}

// NewEnsembleLogger creates a new ensemble logger.
func NewEnsembleLogger(baseLogger *logrus.Logger) *EnsembleLogger {
	return &EnsembleLogger{
		Entry: baseLogger.WithField("component", "ensemble"),
	}
}

// LogEvaluation logs a completed evaluation.
func (el *EnsembleLogger) LogEvaluation(result models.EnsembleResult, cacheHit bool, durationMs float64) {
	el.WithFields(logrus.Fields{
		"evaluation_id":      result.EvaluationID.String(),
		"player":             result.PlayerName,
		"stat_type":          string(result.StatType),
		"line":               result.Line,
		"final_projection":   result.FinalProjection,
		"final_probability":  result.FinalProbability,
		"confidence_score":   result.ConfidenceScore,
		"disagreement_level": result.DisagreementLevel,
		"degraded_models":    result.DegradedModels(),
		"cache_hit":          cacheHit,
		"duration_ms":        durationMs,
	}).Info("Ensemble evaluation completed")
}

// LogModelOutput logs one model's contribution at debug level.
func (el *EnsembleLogger) LogModelOutput(player string, out models.ModelOutput) {
	el.WithFields(logrus.Fields{
		"player":           player,
		"model":            out.ModelName,
		"expected_value":   out.ExpectedValue,
		"probability_over": out.ProbabilityOver,
		"confidence":       out.Confidence,
		"weight":           out.Weight,
	}).Debug("Model output")
}

// LogDegradedModel logs a model that could not produce an estimate.
func (el *EnsembleLogger) LogDegradedModel(player string, out models.ModelOutput) {
	el.WithFields(logrus.Fields{
		"player":  player,
		"model":   out.ModelName,
		"failure": string(out.Failure),
		"reasons": out.Reasons,
	}).Warn("Model degraded")
}

// LogBetDecision logs the bet decision for an evaluation.
func (el *EnsembleLogger) LogBetDecision(result models.EnsembleResult) {
	el.WithFields(logrus.Fields{
		"evaluation_id":  result.EvaluationID.String(),
		"player":         result.PlayerName,
		"stat_type":      string(result.StatType),
		"is_bet":         result.IsBet,
		"recommendation": string(result.Recommendation),
		"expected_value": result.ExpectedValue,
		"edge":           result.Edge,
		"kelly_fraction": result.KellyFraction,
		"odds":           result.Odds,
	}).Info("Bet decision made")
}

// LogBatch logs a completed batch run.
func (el *EnsembleLogger) LogBatch(total, scored, failed, bets int, durationMs float64) {
	el.WithFields(logrus.Fields{
		"total":       total,
		"scored":      scored,
		"failed":      failed,
		"bets":        bets,
		"duration_ms": durationMs,
	}).Info("Batch scoring completed")
}
