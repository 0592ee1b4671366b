// Package odds converts bookmaker prices between formats and strips the
// bookmaker margin from a two-way market.
package odds

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidOdds is returned when a price cannot be parsed or is not payable
	ErrInvalidOdds = errors.New("invalid odds")

	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Format identifies how a price was quoted
type Format string

const (
	FormatDecimal    Format = "decimal"
	FormatAmerican   Format = "american"
	FormatFractional Format = "fractional"
)

// Price is a parsed bookmaker quote held as decimal odds
type Price struct {
	Decimal decimal.Decimal
	Format  Format
}

// Float64 returns the decimal odds as a float
func (p Price) Float64() float64 {
	f, _ := p.Decimal.Float64()
	return f
}

// ImpliedProbability returns 1/odds for the price
func (p Price) ImpliedProbability() float64 {
	return ImpliedProbability(p.Decimal)
}

// Parse reads decimal ("1.91"), American ("-110", "+150") or fractional
// ("10/11") odds. A leading sign marks American odds.
func Parse(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}, fmt.Errorf("%w: empty price", ErrInvalidOdds)
	}

	switch {
	case strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-"):
		american, err := decimal.NewFromString(s)
		if err != nil {
			return Price{}, fmt.Errorf("%w: %q: %v", ErrInvalidOdds, s, err)
		}
		d, err := AmericanToDecimal(american)
		if err != nil {
			return Price{}, err
		}
		return Price{Decimal: d, Format: FormatAmerican}, nil

	case strings.Contains(s, "/"):
		d, err := FractionalToDecimal(s)
		if err != nil {
			return Price{}, err
		}
		return Price{Decimal: d, Format: FormatFractional}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %q: %v", ErrInvalidOdds, s, err)
	}
	if d.LessThanOrEqual(one) {
		return Price{}, fmt.Errorf("%w: decimal odds %s must exceed 1", ErrInvalidOdds, d)
	}
	return Price{Decimal: d, Format: FormatDecimal}, nil
}

// AmericanToDecimal converts a moneyline price. +150 pays 2.50, -110 pays 1.909...
func AmericanToDecimal(american decimal.Decimal) (decimal.Decimal, error) {
	if american.Abs().LessThan(hundred) {
		return decimal.Zero, fmt.Errorf("%w: american odds %s must be at least 100 in magnitude", ErrInvalidOdds, american)
	}
	if american.IsPositive() {
		return one.Add(american.Div(hundred)), nil
	}
	return one.Add(hundred.Div(american.Abs())), nil
}

// DecimalToAmerican converts decimal odds back to a moneyline price
func DecimalToAmerican(d decimal.Decimal) (decimal.Decimal, error) {
	if d.LessThanOrEqual(one) {
		return decimal.Zero, fmt.Errorf("%w: decimal odds %s must exceed 1", ErrInvalidOdds, d)
	}
	profit := d.Sub(one)
	if profit.GreaterThanOrEqual(one) {
		return profit.Mul(hundred).Round(0), nil
	}
	return hundred.Div(profit).Neg().Round(0), nil
}

// FractionalToDecimal converts "num/den" odds
func FractionalToDecimal(s string) (decimal.Decimal, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return decimal.Zero, fmt.Errorf("%w: %q is not a fraction", ErrInvalidOdds, s)
	}
	num, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidOdds, s, err)
	}
	den, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidOdds, s, err)
	}
	if !num.IsPositive() || !den.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q must be positive", ErrInvalidOdds, s)
	}
	return one.Add(num.Div(den)), nil
}

// ImpliedProbability returns the raw break-even probability 1/odds. It still
// carries the bookmaker margin.
func ImpliedProbability(d decimal.Decimal) float64 {
	if d.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	p, _ := one.Div(d).Float64()
	return p
}

// RemoveVig normalizes the two sides of a market so they sum to one and
// returns the fair over and under probabilities plus the margin removed.
func RemoveVig(over, under decimal.Decimal) (fairOver, fairUnder, margin float64, err error) {
	if over.LessThanOrEqual(one) || under.LessThanOrEqual(one) {
		return 0, 0, 0, fmt.Errorf("%w: both sides must exceed 1 (over %s, under %s)", ErrInvalidOdds, over, under)
	}
	pOver := one.Div(over)
	pUnder := one.Div(under)
	total := pOver.Add(pUnder)

	fairOver, _ = pOver.Div(total).Float64()
	fairUnder, _ = pUnder.Div(total).Float64()
	margin, _ = total.Sub(one).Float64()
	return fairOver, fairUnder, margin, nil
}
