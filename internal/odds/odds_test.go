package odds

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		format  Format
		wantErr bool
	}{
		{name: "decimal", input: "1.91", want: 1.91, format: FormatDecimal},
		{name: "decimal with spaces", input: " 2.50 ", want: 2.5, format: FormatDecimal},
		{name: "american favourite", input: "-110", want: 1 + 100.0/110.0, format: FormatAmerican},
		{name: "american underdog", input: "+150", want: 2.5, format: FormatAmerican},
		{name: "fractional", input: "5/2", want: 3.5, format: FormatFractional},
		{name: "empty", input: "", wantErr: true},
		{name: "decimal at one", input: "1.0", wantErr: true},
		{name: "american too small", input: "+50", wantErr: true},
		{name: "garbage", input: "evens", wantErr: true},
		{name: "bad fraction", input: "1/0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOdds)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, price.Float64(), 1e-9)
			assert.Equal(t, tt.format, price.Format)
		})
	}
}

func TestDecimalToAmerican(t *testing.T) {
	got, err := DecimalToAmerican(decimal.NewFromFloat(2.5))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(150)))

	got, err = DecimalToAmerican(decimal.NewFromFloat(1.5))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(-200)))

	_, err = DecimalToAmerican(decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrInvalidOdds)
}

func TestImpliedProbability(t *testing.T) {
	assert.InDelta(t, 0.5, ImpliedProbability(decimal.NewFromInt(2)), 1e-12)
	assert.InDelta(t, 1/1.91, ImpliedProbability(decimal.NewFromFloat(1.91)), 1e-12)
	assert.Zero(t, ImpliedProbability(decimal.Zero))
}

func TestRemoveVig(t *testing.T) {
	over := decimal.NewFromFloat(1.91)
	under := decimal.NewFromFloat(1.91)

	fairOver, fairUnder, margin, err := RemoveVig(over, under)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, fairOver, 1e-12)
	assert.InDelta(t, 0.5, fairUnder, 1e-12)
	assert.InDelta(t, 2/1.91-1, margin, 1e-12)

	fairOver, fairUnder, _, err = RemoveVig(decimal.NewFromFloat(1.5), decimal.NewFromFloat(2.6))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fairOver+fairUnder, 1e-12)
	assert.Greater(t, fairOver, fairUnder)

	_, _, _, err = RemoveVig(decimal.NewFromInt(1), under)
	assert.ErrorIs(t, err, ErrInvalidOdds)
}
