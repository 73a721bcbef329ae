package marketdata

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/advisor/internal/domain"
)

// maxConcurrentFetches bounds the per-request fan-out to upstream APIs
const maxConcurrentFetches = 8

// FetchAll loads every symbol concurrently. The result is in symbol order.
// The first error cancels the remaining fetches.
func FetchAll(ctx context.Context, p Provider, symbols []string, r DateRange) ([]domain.ReturnSeries, error) {
	out := make([]domain.ReturnSeries, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, sym := range symbols {
		g.Go(func() error {
			s, err := p.Series(gctx, sym, r)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", sym, err)
			}
			if s.Symbol == "" {
				s.Symbol = sym
			}
			out[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AlignTail trims every series to the most recent common window: the shortest
// length, capped at horizon when horizon > 0. The second result reports
// whether any series was shortened.
func AlignTail(series []domain.ReturnSeries, horizon int) ([]domain.ReturnSeries, bool, error) {
	if len(series) == 0 {
		return nil, false, nil
	}

	window := series[0].Len()
	for _, s := range series[1:] {
		if s.Len() < window {
			window = s.Len()
		}
	}
	if horizon > 0 && window > horizon {
		window = horizon
	}
	if window == 0 {
		return nil, false, domain.InsufficientData("no overlapping returns across %d series", len(series))
	}

	trimmed := false
	out := make([]domain.ReturnSeries, len(series))
	for i, s := range series {
		if s.Len() != window {
			trimmed = true
		}
		out[i] = s.Tail(window)
	}
	return out, trimmed, nil
}
