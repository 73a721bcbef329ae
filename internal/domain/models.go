// Package domain provides core domain models and types.
package domain

import (
	"strings"

	"github.com/aristath/advisor/pkg/formulas"
)

// ReturnSeries represents the daily return history of one symbol
type ReturnSeries struct {
	Symbol       string    `json:"symbol"`
	DailyReturns []float64 `json:"returns"`
	CurrentPrice float64   `json:"currentPrice"`
	Simulated    bool      `json:"isSimulated"` // Generated rather than fetched from a market data source
}

// NewReturnSeries builds a series owning a private copy of returns.
func NewReturnSeries(symbol string, returns []float64, currentPrice float64, simulated bool) ReturnSeries {
	cp := make([]float64, len(returns))
	copy(cp, returns)
	return ReturnSeries{
		Symbol:       symbol,
		DailyReturns: cp,
		CurrentPrice: currentPrice,
		Simulated:    simulated,
	}
}

// ExpectedReturn is the annualized mean daily return (mean × 252)
func (s ReturnSeries) ExpectedReturn() float64 {
	return formulas.AnnualizedReturn(s.DailyReturns)
}

// Volatility is the annualized population standard deviation (stddev × √252)
func (s ReturnSeries) Volatility() float64 {
	return formulas.AnnualizedVolatility(s.DailyReturns)
}

// Len returns the number of daily returns
func (s ReturnSeries) Len() int {
	return len(s.DailyReturns)
}

// Tail returns a copy of the series keeping only the last n returns.
func (s ReturnSeries) Tail(n int) ReturnSeries {
	if n >= len(s.DailyReturns) {
		return NewReturnSeries(s.Symbol, s.DailyReturns, s.CurrentPrice, s.Simulated)
	}
	if n < 0 {
		n = 0
	}
	return NewReturnSeries(s.Symbol, s.DailyReturns[len(s.DailyReturns)-n:], s.CurrentPrice, s.Simulated)
}

// PerformanceMetrics summarizes a backtest. Every field except SharpeRatio,
// SortinoRatio and TradingDays is expressed in percent.
type PerformanceMetrics struct {
	TotalReturn      float64 `json:"totalReturn"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
	Volatility       float64 `json:"volatility"`
	SharpeRatio      float64 `json:"sharpeRatio"`
	SortinoRatio     float64 `json:"sortinoRatio"`
	MaxDrawdown      float64 `json:"maxDrawdown"`
	WinRate          float64 `json:"winRate"`
	TradingDays      int     `json:"tradingDays"`
}

// NormalizeSymbols trims and upper-cases symbols, drops empties and
// duplicates, and preserves first-seen order. Comma separated entries are split.
func NormalizeSymbols(raw []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			sym := strings.ToUpper(strings.TrimSpace(part))
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			out = append(out, sym)
		}
	}
	return out
}
