package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/cache"
	"github.com/aristath/advisor/internal/domain"
)

// cachedSeries is the msgpack payload stored in the price cache
type cachedSeries struct {
	Symbol       string    `msgpack:"symbol"`
	DailyReturns []float64 `msgpack:"returns"`
	CurrentPrice float64   `msgpack:"price"`
}

// CachedProvider memoizes a live provider in the persistent cache. When the
// upstream fails, a stale entry is served if one exists.
type CachedProvider struct {
	next Provider
	repo *cache.Repository
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCachedProvider wraps next with cache lookups
func NewCachedProvider(next Provider, repo *cache.Repository, ttl time.Duration, log zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		next: next,
		repo: repo,
		ttl:  ttl,
		log:  log.With().Str("provider", "cache").Logger(),
	}
}

func cacheKey(symbol string, r DateRange) string {
	return symbol + "|" + r.Key()
}

// Series implements Provider
func (p *CachedProvider) Series(ctx context.Context, symbol string, r DateRange) (domain.ReturnSeries, error) {
	key := cacheKey(symbol, r)

	var hit cachedSeries
	found, err := p.repo.GetIfFresh(ctx, cache.TablePrices, key, &hit)
	if err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}
	if found {
		p.log.Debug().Str("key", key).Msg("Cache hit")
		return domain.NewReturnSeries(hit.Symbol, hit.DailyReturns, hit.CurrentPrice, false), nil
	}

	s, err := p.next.Series(ctx, symbol, r)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.ReturnSeries{}, err
		}
		if stale, ok := p.stale(ctx, key); ok {
			p.log.Warn().Err(err).Str("key", key).Msg("Upstream failed, using stale cached series")
			return stale, nil
		}
		return domain.ReturnSeries{}, err
	}

	payload := cachedSeries{Symbol: s.Symbol, DailyReturns: s.DailyReturns, CurrentPrice: s.CurrentPrice}
	if err := p.repo.Store(ctx, cache.TablePrices, key, payload, p.ttl); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
	return s, nil
}

func (p *CachedProvider) stale(ctx context.Context, key string) (domain.ReturnSeries, bool) {
	var old cachedSeries
	found, err := p.repo.Get(ctx, cache.TablePrices, key, &old)
	if err != nil || !found {
		return domain.ReturnSeries{}, false
	}
	return domain.NewReturnSeries(old.Symbol, old.DailyReturns, old.CurrentPrice, false), true
}
