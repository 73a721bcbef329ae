// Package backtest replays historical daily returns through a fixed weight vector.
package backtest

import (
	"github.com/aristath/advisor/internal/domain"
)

// BaseValue is the starting value of every simulated path.
const BaseValue = 100.0

// Result holds the outcome of a simulation.
type Result struct {
	PortfolioReturns []float64 `json:"portfolioReturns"` // r[t] = Σ w_i · r_i[t]
	ValuePath        []float64 `json:"valuePath"`        // len(PortfolioReturns)+1, starts at BaseValue
}

// Simulate computes the buy-and-hold portfolio path for weights over series.
//
// Every series must have the same number of returns and len(weights) must
// equal len(series); otherwise a dimension mismatch is returned. Use
// marketdata.AlignTail beforehand to trim series to a common window.
func Simulate(series []domain.ReturnSeries, weights []float64) (*Result, error) {
	if len(series) == 0 {
		return nil, domain.NewValidationError("series", "must not be empty")
	}
	if len(series) != len(weights) {
		return nil, domain.DimensionMismatch("weights", "got %d weights for %d series", len(weights), len(series))
	}

	days := series[0].Len()
	for _, s := range series[1:] {
		if s.Len() != days {
			return nil, domain.DimensionMismatch("series", "%s has %d returns, %s has %d",
				series[0].Symbol, days, s.Symbol, s.Len())
		}
	}

	returns := make([]float64, days)
	path := make([]float64, days+1)
	path[0] = BaseValue

	for t := 0; t < days; t++ {
		var r float64
		for i, s := range series {
			r += weights[i] * s.DailyReturns[t]
		}
		returns[t] = r
		path[t+1] = path[t] * (1 + r)
	}

	return &Result{PortfolioReturns: returns, ValuePath: path}, nil
}
