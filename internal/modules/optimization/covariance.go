// Package optimization estimates covariance and computes risk-adjusted
// portfolio weights.
package optimization

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/pkg/formulas"
)

// DefaultCorrelationFallback is used for pairs whose return series cannot be compared.
const DefaultCorrelationFallback = 0.3

// CovarianceMatrix is an annualized N×N covariance matrix in symbol order.
// It is never mutated after construction.
type CovarianceMatrix struct {
	symbols []string
	vols    []float64
	cov     *mat.SymDense
	corr    *mat.SymDense
}

// EstimateCovariance builds the covariance matrix for the given series.
//
// Diagonal entries are vol(i)². Off-diagonal entries are corr(i,j)·vol(i)·vol(j)
// where corr is the Pearson correlation of the daily returns when both series
// have the same length, otherwise correlationFallback.
func EstimateCovariance(series []domain.ReturnSeries, correlationFallback float64) (*CovarianceMatrix, error) {
	n := len(series)
	if n < 2 {
		return nil, domain.NewValidationError("series", "need at least 2 return series, got %d", n)
	}
	if math.IsNaN(correlationFallback) || correlationFallback < -1 || correlationFallback > 1 {
		return nil, domain.NewValidationError("correlationFallback", "must be within [-1, 1], got %v", correlationFallback)
	}

	symbols := make([]string, n)
	vols := make([]float64, n)
	for i, s := range series {
		if s.Len() == 0 {
			return nil, domain.InsufficientData("no daily returns for %s", s.Symbol)
		}
		symbols[i] = s.Symbol
		vols[i] = s.Volatility()
	}

	cov := mat.NewSymDense(n, nil)
	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1)
		cov.SetSym(i, i, vols[i]*vols[i])
		for j := i + 1; j < n; j++ {
			c, ok := formulas.PearsonCorrelation(series[i].DailyReturns, series[j].DailyReturns)
			if !ok {
				c = correlationFallback
			}
			corr.SetSym(i, j, c)
			cov.SetSym(i, j, c*vols[i]*vols[j])
		}
	}

	return &CovarianceMatrix{
		symbols: symbols,
		vols:    vols,
		cov:     cov,
		corr:    corr,
	}, nil
}

// Dims returns N.
func (m *CovarianceMatrix) Dims() int {
	return len(m.symbols)
}

// At returns Σ(i,j).
func (m *CovarianceMatrix) At(i, j int) float64 {
	return m.cov.At(i, j)
}

// Correlation returns the correlation used for pair (i,j).
func (m *CovarianceMatrix) Correlation(i, j int) float64 {
	return m.corr.At(i, j)
}

// Volatility returns the annualized volatility of asset i.
func (m *CovarianceMatrix) Volatility(i int) float64 {
	return m.vols[i]
}

// Symbols returns a copy of the symbol ordering.
func (m *CovarianceMatrix) Symbols() []string {
	out := make([]string, len(m.symbols))
	copy(out, m.symbols)
	return out
}

// Symmetric exposes the matrix for gonum operations.
func (m *CovarianceMatrix) Symmetric() mat.Symmetric {
	return m.cov
}

// Rows returns the matrix as nested slices, e.g. for JSON responses.
func (m *CovarianceMatrix) Rows() [][]float64 {
	n := m.Dims()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			rows[i][j] = m.cov.At(i, j)
		}
	}
	return rows
}

// PortfolioVariance returns w'Σw.
func (m *CovarianceMatrix) PortfolioVariance(weights []float64) float64 {
	w := mat.NewVecDense(len(weights), append([]float64(nil), weights...))
	return mat.Inner(w, m.cov, w)
}

func (m *CovarianceMatrix) isFinite() bool {
	n := m.Dims()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := m.cov.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
