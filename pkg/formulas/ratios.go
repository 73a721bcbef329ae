package formulas

import "math"

// volatilityEpsilon absorbs floating-point noise left over from constant series.
const volatilityEpsilon = 1e-12

// SharpeRatio returns (annualReturn - riskFreeRate) / volatility, all as
// fractions. Zero volatility yields 0.
func SharpeRatio(annualReturn, volatility, riskFreeRate float64) float64 {
	if volatility < volatilityEpsilon {
		return 0
	}
	return (annualReturn - riskFreeRate) / volatility
}

// DownsideDeviation is the annualized root mean square of the negative
// returns only. Returns 0 when no return is negative.
func DownsideDeviation(dailyReturns []float64) float64 {
	var sumSq float64
	var count int
	for _, r := range dailyReturns {
		if r < 0 {
			sumSq += r * r
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(count) * TradingDaysPerYear)
}

// SortinoRatio returns (annualReturn - riskFreeRate) / downsideDeviation.
// Downside deviation below volatilityEpsilon counts as zero and yields 0.
func SortinoRatio(annualReturn, downsideDeviation, riskFreeRate float64) float64 {
	if downsideDeviation < volatilityEpsilon {
		return 0
	}
	return (annualReturn - riskFreeRate) / downsideDeviation
}

// WinRate is the fraction of strictly positive returns.
func WinRate(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range dailyReturns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(dailyReturns))
}

// NearZero reports whether a volatility-like quantity is numerically zero.
func NearZero(v float64) bool {
	return math.Abs(v) < volatilityEpsilon
}
