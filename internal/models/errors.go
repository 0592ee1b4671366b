package models

import "errors"

// Custom errors
var (
	ErrUnknownStatType = errors.New("unknown stat type")
	ErrEmptyPlayer     = errors.New("player name is required")
	ErrInvalidLine     = errors.New("line must be a finite number")
	ErrInvalidInput    = errors.New("invalid model input")
)

// FailureKind tags a model output that degraded instead of producing an estimate
type FailureKind string

// Failure kinds
const (
	FailureNone               FailureKind = ""
	FailureInsufficientData   FailureKind = "insufficient_data"
	FailureSingularTraining   FailureKind = "singular_training"
	FailureInvalidMarketInput FailureKind = "invalid_market_input"
)
