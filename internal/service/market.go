package service

import (
	"fmt"

	"github.com/yourusername/prop-ensemble/internal/models"
	"github.com/yourusername/prop-ensemble/internal/odds"
)

// ResolveMarket fills the market fields of an input from quoted prices in
// any supported format. Values already present on the input win. The fair
// no-vig over probability is derived only when both prices in use came from
// the quotes and no implied probability was given.
func ResolveMarket(in *models.ModelInput, overQuote, underQuote string) (*models.ModelInput, error) {
	out := *in

	var over, under *odds.Price
	if overQuote != "" {
		p, err := odds.Parse(overQuote)
		if err != nil {
			return nil, fmt.Errorf("over price: %w", err)
		}
		if out.MarketOdds == nil {
			over = &p
			out.MarketOdds = models.Float64(p.Float64())
		}
	}
	if underQuote != "" {
		p, err := odds.Parse(underQuote)
		if err != nil {
			return nil, fmt.Errorf("under price: %w", err)
		}
		if out.UnderOdds == nil {
			under = &p
			out.UnderOdds = models.Float64(p.Float64())
		}
	}

	if over != nil && under != nil && out.ImpliedProbability == nil {
		fairOver, _, _, err := odds.RemoveVig(over.Decimal, under.Decimal)
		if err != nil {
			return nil, err
		}
		out.ImpliedProbability = models.Float64(fairOver)
	}
	return &out, nil
}
