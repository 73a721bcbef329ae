package marketdata

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/pkg/formulas"
)

// SyntheticDays is the length of a generated series (one trading year)
const SyntheticDays = formulas.TradingDaysPerYear

// Profile is the annualized drift and volatility used to generate a symbol
type Profile struct {
	Return     float64
	Volatility float64
}

// DefaultProfile applies to symbols without a specific profile
var DefaultProfile = Profile{Return: 0.10, Volatility: 0.30}

var profiles = map[string]Profile{
	"TSLA":  {Return: 0.10, Volatility: 0.40},
	"AAPL":  {Return: 0.10, Volatility: 0.25},
	"NVDA":  {Return: 0.15, Volatility: 0.30},
	"GOOGL": {Return: 0.12, Volatility: 0.30},
}

// ProfileFor returns the generation profile of symbol
func ProfileFor(symbol string) Profile {
	if p, ok := profiles[symbol]; ok {
		return p
	}
	return DefaultProfile
}

// SyntheticProvider generates Gaussian daily returns. Output depends only on
// the seed and the symbol, so repeated calls are identical.
type SyntheticProvider struct {
	seed uint64
	days int
}

// NewSyntheticProvider creates a generator seeded with seed
func NewSyntheticProvider(seed uint64) *SyntheticProvider {
	return &SyntheticProvider{seed: seed, days: SyntheticDays}
}

// Seed returns the generator seed
func (p *SyntheticProvider) Seed() uint64 {
	return p.seed
}

// Series implements Provider. The date range is ignored.
func (p *SyntheticProvider) Series(ctx context.Context, symbol string, _ DateRange) (domain.ReturnSeries, error) {
	if err := ctx.Err(); err != nil {
		return domain.ReturnSeries{}, err
	}

	src := rand.NewPCG(p.seed, symbolHash(symbol))
	profile := ProfileFor(symbol)
	daily := distuv.Normal{
		Mu:    profile.Return / formulas.TradingDaysPerYear,
		Sigma: profile.Volatility / math.Sqrt(formulas.TradingDaysPerYear),
		Src:   src,
	}

	returns := make([]float64, p.days)
	for i := range returns {
		returns[i] = daily.Rand()
	}
	price := 50 + rand.New(src).Float64()*300

	return domain.NewReturnSeries(symbol, returns, price, true), nil
}

func symbolHash(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum64()
}
