package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validInput() *ModelInput {
	return &ModelInput{
		PlayerName: "Test Player",
		StatType:   StatPoints,
		Line:       22.5,
		GameLog: []GameLogEntry{
			{Date: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), Minutes: 32, Points: 24},
			{Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), Minutes: 30, Points: 18},
		},
		AsOf: time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestModelInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ModelInput)
		wantErr error
	}{
		{name: "valid", mutate: func(*ModelInput) {}},
		{name: "empty game log is allowed", mutate: func(in *ModelInput) { in.GameLog = nil }},
		{name: "negative line is allowed", mutate: func(in *ModelInput) { in.Line = -3 }},
		{name: "empty player", mutate: func(in *ModelInput) { in.PlayerName = "" }, wantErr: ErrEmptyPlayer},
		{name: "unknown stat", mutate: func(in *ModelInput) { in.StatType = "goals" }, wantErr: ErrUnknownStatType},
		{name: "nan line", mutate: func(in *ModelInput) { in.Line = math.NaN() }, wantErr: ErrInvalidLine},
		{name: "infinite line", mutate: func(in *ModelInput) { in.Line = math.Inf(1) }, wantErr: ErrInvalidLine},
		{name: "negative minutes", mutate: func(in *ModelInput) { in.GameLog[0].Minutes = -1 }, wantErr: ErrInvalidInput},
		{name: "missing game date", mutate: func(in *ModelInput) { in.GameLog[1].Date = time.Time{} }, wantErr: ErrInvalidInput},
		{name: "projected minutes too high", mutate: func(in *ModelInput) { in.ProjectedMinutes = Float64(75) }, wantErr: ErrInvalidInput},
		{name: "implied probability out of range", mutate: func(in *ModelInput) { in.ImpliedProbability = Float64(1.5) }, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			err := in.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var nilInput *ModelInput
	assert.ErrorIs(t, nilInput.Validate(), ErrInvalidInput)
}

func TestModelInputFingerprint(t *testing.T) {
	a := validInput()
	b := validInput()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Line = 23.5
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := validInput()
	c.MarketOdds = Float64(1.91)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestOptionalValue(t *testing.T) {
	assert.Equal(t, 30.0, OptionalValue(nil, 30))
	assert.Equal(t, 36.0, OptionalValue(Float64(36), 30))
}

func TestWithGameLog(t *testing.T) {
	in := validInput()
	clone := in.WithGameLog(nil)

	assert.Nil(t, clone.GameLog)
	assert.Len(t, in.GameLog, 2)
	assert.Equal(t, in.PlayerName, clone.PlayerName)
}
