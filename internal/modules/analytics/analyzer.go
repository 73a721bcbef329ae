// Package analytics computes summary performance statistics of a backtest.
package analytics

import (
	"math"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/pkg/formulas"
)

// DefaultRiskFreeRate is the annual risk-free rate used for Sharpe and Sortino.
const DefaultRiskFreeRate = 0.02

// Analyze computes PerformanceMetrics from daily portfolio returns and the
// matching value path.
//
//	totalReturn      = (last/first − 1) × 100
//	annualizedReturn = mean(r) × 252 × 100
//	volatility       = sqrt(popVar(r) × 252) × 100
//	sharpe           = (annualized − rf) / volatility, 0 when volatility is 0
//	sortino          = (annualized − rf) / downsideDeviation, 0 when no downside
//	maxDrawdown      = running-peak drawdown × 100
//	winRate          = share of r > 0 × 100
func Analyze(portfolioReturns, valuePath []float64, riskFreeRate float64) (*domain.PerformanceMetrics, error) {
	if len(portfolioReturns) == 0 {
		return nil, domain.InsufficientData("no portfolio returns to analyze")
	}
	if len(valuePath) == 0 {
		return nil, domain.InsufficientData("empty value path")
	}
	if !formulas.AllFinite(portfolioReturns) {
		return nil, domain.NewValidationError("portfolioReturns", "contains NaN or infinite values")
	}
	if !formulas.AllFinite(valuePath) {
		return nil, domain.NewValidationError("valuePath", "contains NaN or infinite values")
	}

	totalReturn := 0.0
	if first := valuePath[0]; first != 0 {
		totalReturn = (valuePath[len(valuePath)-1]/first - 1) * 100
	}

	annualReturn := formulas.AnnualizedReturn(portfolioReturns)
	volatility := math.Sqrt(formulas.PopVariance(portfolioReturns) * formulas.TradingDaysPerYear)
	if formulas.NearZero(volatility) {
		volatility = 0
	}
	downside := formulas.DownsideDeviation(portfolioReturns)

	return &domain.PerformanceMetrics{
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualReturn * 100,
		Volatility:       volatility * 100,
		SharpeRatio:      formulas.SharpeRatio(annualReturn, volatility, riskFreeRate),
		SortinoRatio:     formulas.SortinoRatio(annualReturn, downside, riskFreeRate),
		MaxDrawdown:      formulas.MaxDrawdown(valuePath) * 100,
		WinRate:          formulas.WinRate(portfolioReturns) * 100,
		TradingDays:      len(portfolioReturns),
	}, nil
}
