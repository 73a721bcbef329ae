// Package formulas holds the small numeric building blocks shared by the
// optimization, backtest and analytics modules.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor used throughout the engine.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// PopVariance calculates the population variance (divides by N, not N-1)
func PopVariance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.PopVariance(data, nil)
}

// PopStdDev calculates the population standard deviation
func PopStdDev(data []float64) float64 {
	return math.Sqrt(PopVariance(data))
}

// AnnualizedReturn scales the mean daily return by the trading-day count.
func AnnualizedReturn(dailyReturns []float64) float64 {
	return Mean(dailyReturns) * TradingDaysPerYear
}

// AnnualizedVolatility calculates annualized volatility from daily returns
// Formula: population std dev of daily returns × sqrt(252)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	return PopStdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// CalculateReturns converts prices to fractional returns
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// PearsonCorrelation returns the sample correlation of x and y.
//
// The second return value is false when the series cannot be compared (empty
// or different lengths). A zero denominator yields 0, and the result is
// clamped into [-1, 1]. The computation is symmetric in its arguments.
func PearsonCorrelation(x, y []float64) (float64, bool) {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0, false
	}

	mx := Mean(x)
	my := Mean(y)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	denom := math.Sqrt(sxx * syy)
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return 0, true
	}

	return Clamp(sxy/denom, -1, 1), true
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AllFinite reports whether every value is neither NaN nor ±Inf.
func AllFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
