package marketdata

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/clients/tiingo"
	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/pkg/formulas"
)

// TiingoProvider derives returns from Tiingo adjusted closes
type TiingoProvider struct {
	client *tiingo.Client
	log    zerolog.Logger
}

// NewTiingoProvider creates a live provider
func NewTiingoProvider(client *tiingo.Client, log zerolog.Logger) *TiingoProvider {
	return &TiingoProvider{
		client: client,
		log:    log.With().Str("provider", "tiingo").Logger(),
	}
}

// Series implements Provider. Returns are (p[t] − p[t−1]) / p[t−1] on adjClose.
func (p *TiingoProvider) Series(ctx context.Context, symbol string, r DateRange) (domain.ReturnSeries, error) {
	prices, err := p.client.GetDailyPrices(ctx, symbol, r.Start, r.End)
	if err != nil {
		return domain.ReturnSeries{}, err
	}
	if len(prices) < 2 {
		return domain.ReturnSeries{}, domain.InsufficientData("only %d price points for %s", len(prices), symbol)
	}

	closes := make([]float64, len(prices))
	for i, bar := range prices {
		closes[i] = bar.AdjClose
	}
	returns := formulas.CalculateReturns(closes)
	if !formulas.AllFinite(returns) {
		return domain.ReturnSeries{}, fmt.Errorf("non-finite returns computed for %s", symbol)
	}

	p.log.Debug().
		Str("symbol", symbol).
		Str("range", r.Key()).
		Int("returns", len(returns)).
		Msg("Loaded return series")

	return domain.NewReturnSeries(symbol, returns, closes[len(closes)-1], false), nil
}
