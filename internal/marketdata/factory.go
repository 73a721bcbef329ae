package marketdata

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/cache"
	"github.com/aristath/advisor/internal/clients/tiingo"
)

// Factory assembles provider chains. The live chain is
// Fallback(Cached(Tiingo), Synthetic); without an API key only the synthetic
// generator is used.
type Factory struct {
	client    *tiingo.Client
	repo      *cache.Repository // optional
	synthetic *SyntheticProvider
	ttl       time.Duration
	log       zerolog.Logger
}

// NewFactory creates a provider factory. repo may be nil to disable caching.
func NewFactory(client *tiingo.Client, repo *cache.Repository, synthetic *SyntheticProvider, ttl time.Duration, log zerolog.Logger) *Factory {
	return &Factory{
		client:    client,
		repo:      repo,
		synthetic: synthetic,
		ttl:       ttl,
		log:       log,
	}
}

// Synthetic returns the deterministic generator
func (f *Factory) Synthetic() *SyntheticProvider {
	return f.synthetic
}

// HasLiveSource reports whether a live chain can be built with apiKey (or the configured key)
func (f *Factory) HasLiveSource(apiKey string) bool {
	return f.client != nil && f.client.WithAPIKey(apiKey).HasAPIKey()
}

// Provider returns the chain for a request. A non-empty apiKey overrides
// the configured Tiingo key.
func (f *Factory) Provider(apiKey string) Provider {
	if !f.HasLiveSource(apiKey) {
		return f.synthetic
	}

	var live Provider = NewTiingoProvider(f.client.WithAPIKey(apiKey), f.log)
	if f.repo != nil {
		live = NewCachedProvider(live, f.repo, f.ttl, f.log)
	}
	return NewFallbackProvider(live, f.synthetic, f.log)
}

// TickerInfo returns Tiingo metadata for symbol, cached for the provider TTL.
func (f *Factory) TickerInfo(ctx context.Context, symbol, apiKey string) (*tiingo.Metadata, error) {
	if f.client == nil {
		return nil, tiingo.ErrNoAPIKey
	}
	client := f.client.WithAPIKey(apiKey)

	if f.repo != nil {
		var meta tiingo.Metadata
		if found, err := f.repo.GetIfFresh(ctx, cache.TableMetadata, symbol, &meta); err == nil && found {
			return &meta, nil
		}
	}

	meta, err := client.GetMetadata(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if f.repo != nil {
		if err := f.repo.Store(ctx, cache.TableMetadata, symbol, meta, f.ttl); err != nil {
			f.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache ticker metadata")
		}
	}
	return meta, nil
}
