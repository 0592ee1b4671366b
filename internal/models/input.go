package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// fingerprintNamespace scopes evaluation fingerprints to this application
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("prop-ensemble/model-input"))

// ModelInput is one query to the ensemble: a player, a stat, a line and context
type ModelInput struct {
	PlayerName         string         `json:"player_name" validate:"required"`
	StatType           StatType       `json:"stat_type" validate:"required,stattype"`
	Line               float64        `json:"line"`
	GameLog            []GameLogEntry `json:"game_log" validate:"dive"`
	Opponent           string         `json:"opponent,omitempty"`
	IsHome             bool           `json:"is_home"`
	ProjectedMinutes   *float64       `json:"projected_minutes,omitempty" validate:"omitempty,gt=0,lte=60"`
	TeamPace           *float64       `json:"team_pace,omitempty" validate:"omitempty,gt=0"`
	OpponentPace       *float64       `json:"opponent_pace,omitempty" validate:"omitempty,gt=0"`
	OpponentDefRating  *float64       `json:"opponent_def_rating,omitempty" validate:"omitempty,gt=0"`
	MarketOdds         *float64       `json:"market_odds,omitempty"`
	ImpliedProbability *float64       `json:"implied_probability,omitempty" validate:"omitempty,gt=0,lt=1"`
	UnderOdds          *float64       `json:"under_odds,omitempty"`
	// AsOf is the evaluation moment used for rest-day features. Zero means "now".
	AsOf time.Time `json:"as_of,omitempty"`
}

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("stattype", func(fl validator.FieldLevel) bool {
		return StatType(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks the input at the service boundary. The ensemble itself
// tolerates any input; this only rejects queries that cannot be meaningful.
func (in *ModelInput) Validate() error {
	if in == nil {
		return fmt.Errorf("%w: input is nil", ErrInvalidInput)
	}
	if in.PlayerName == "" {
		return ErrEmptyPlayer
	}
	if !in.StatType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatType, in.StatType)
	}
	if math.IsNaN(in.Line) || math.IsInf(in.Line, 0) {
		return ErrInvalidLine
	}
	if err := inputValidator.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// OptionalValue dereferences an optional numeric field with a fallback
func OptionalValue(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// Float64 returns a pointer to v, for populating optional fields
func Float64(v float64) *float64 {
	return &v
}

// WithGameLog returns a shallow copy of the input carrying a different game log
func (in *ModelInput) WithGameLog(games []GameLogEntry) *ModelInput {
	clone := *in
	clone.GameLog = games
	return &clone
}

// Fingerprint derives a deterministic identifier from the input contents.
// Identical inputs always produce the same UUID.
func (in *ModelInput) Fingerprint() uuid.UUID {
	data, err := json.Marshal(in)
	if err != nil {
		return uuid.Nil
	}
	return uuid.NewSHA1(fingerprintNamespace, data)
}
