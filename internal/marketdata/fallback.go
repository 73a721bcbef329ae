package marketdata

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/domain"
)

// FallbackProvider asks primary first and falls back per symbol. Fallback
// series are marked Simulated.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
	log      zerolog.Logger
}

// NewFallbackProvider creates a provider chain
func NewFallbackProvider(primary, fallback Provider, log zerolog.Logger) *FallbackProvider {
	return &FallbackProvider{
		primary:  primary,
		fallback: fallback,
		log:      log.With().Str("provider", "fallback").Logger(),
	}
}

// Series implements Provider
func (p *FallbackProvider) Series(ctx context.Context, symbol string, r DateRange) (domain.ReturnSeries, error) {
	s, err := p.primary.Series(ctx, symbol, r)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.ReturnSeries{}, err
	}

	p.log.Warn().
		Err(err).
		Str("symbol", symbol).
		Msg("Primary market data failed, using simulated data")

	s, ferr := p.fallback.Series(ctx, symbol, r)
	if ferr != nil {
		return domain.ReturnSeries{}, ferr
	}
	s.Simulated = true
	return s, nil
}
