package optimization

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/pkg/formulas"
)

// Strategy selects the weighting algorithm.
type Strategy string

const (
	// StrategyGradient runs projected gradient ascent on μ'w − λ·w'Σw.
	StrategyGradient Strategy = "gradient"
	// StrategyHeuristic weights assets by a closed-form risk-adjusted score.
	StrategyHeuristic Strategy = "heuristic"
	// StrategyRiskParity allocates by hierarchical risk parity; expected
	// returns and risk tolerance do not affect it.
	StrategyRiskParity Strategy = "hrp"
)

// Default gradient ascent parameters
const (
	DefaultIterations   = 1000
	DefaultLearningRate = 0.01
)

// ParseStrategy maps user input to a Strategy. Empty input selects the gradient strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyGradient:
		return StrategyGradient, nil
	case StrategyHeuristic:
		return StrategyHeuristic, nil
	case StrategyRiskParity:
		return StrategyRiskParity, nil
	default:
		return "", domain.NewValidationError("strategy", "unknown strategy %q (expected %q, %q or %q)",
			s, StrategyGradient, StrategyHeuristic, StrategyRiskParity)
	}
}

// RiskAversion converts a 1..10 risk tolerance into λ = (11 − rt)/10.
func RiskAversion(riskTolerance int) float64 {
	return float64(11-riskTolerance) / 10
}

// Optimizer produces long-only weight vectors. The zero value is not usable; use NewOptimizer.
type Optimizer struct {
	Strategy     Strategy
	Iterations   int
	LearningRate float64
}

// NewOptimizer creates a gradient optimizer with default parameters.
func NewOptimizer() *Optimizer {
	return &Optimizer{
		Strategy:     StrategyGradient,
		Iterations:   DefaultIterations,
		LearningRate: DefaultLearningRate,
	}
}

// WithStrategy returns a copy of the optimizer using strategy s.
func (o *Optimizer) WithStrategy(s Strategy) *Optimizer {
	cp := *o
	if s != "" {
		cp.Strategy = s
	}
	return &cp
}

// Optimize computes weights for the assets described by expectedReturns and cov.
//
// The result always has len(expectedReturns) entries, each within the
// (possibly widened, see Constraints.Effective) bounds, summing to 1.
// Non-finite inputs or intermediate values yield equal weights.
func (o *Optimizer) Optimize(
	expectedReturns []float64,
	cov *CovarianceMatrix,
	riskTolerance int,
	constraints Constraints,
) ([]float64, error) {
	if err := domain.ValidateRiskTolerance(riskTolerance); err != nil {
		return nil, err
	}
	if err := constraints.Validate(); err != nil {
		return nil, err
	}
	n := len(expectedReturns)
	if n == 0 {
		return nil, domain.NewValidationError("expectedReturns", "must not be empty")
	}
	if cov == nil || cov.Dims() != n {
		dims := 0
		if cov != nil {
			dims = cov.Dims()
		}
		return nil, domain.DimensionMismatch("covariance", "matrix is %dx%d for %d expected returns", dims, dims, n)
	}

	bounds := constraints.Effective(n)
	if !formulas.AllFinite(expectedReturns) || !cov.isFinite() {
		return equalWeights(n), nil
	}

	lambda := RiskAversion(riskTolerance)

	var w []float64
	switch o.Strategy {
	case StrategyHeuristic:
		w = o.heuristic(expectedReturns, cov, lambda)
	case StrategyRiskParity:
		w = hierarchicalRiskParity(cov)
	case StrategyGradient, "":
		w = o.gradientAscent(expectedReturns, cov, lambda, bounds)
	default:
		return nil, domain.NewValidationError("strategy", "unknown strategy %q", o.Strategy)
	}

	if w == nil || !formulas.AllFinite(w) {
		return equalWeights(n), nil
	}

	bounds.project(w)
	if !formulas.AllFinite(w) {
		return equalWeights(n), nil
	}
	return w, nil
}

// gradientAscent maximizes μ'w − λ·w'Σw starting from equal weights.
// Each step: w += lr·(μ − 2λΣw), clamp into bounds, renormalize to sum 1.
func (o *Optimizer) gradientAscent(mu []float64, cov *CovarianceMatrix, lambda float64, bounds Constraints) []float64 {
	n := len(mu)
	iterations := o.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	lr := o.LearningRate
	if lr <= 0 || math.IsNaN(lr) || math.IsInf(lr, 0) {
		lr = DefaultLearningRate
	}

	w := mat.NewVecDense(n, equalWeights(n))
	sigmaW := mat.NewVecDense(n, nil)
	raw := w.RawVector().Data

	for iter := 0; iter < iterations; iter++ {
		sigmaW.MulVec(cov.Symmetric(), w)
		for i := 0; i < n; i++ {
			grad := mu[i] - 2*lambda*sigmaW.AtVec(i)
			raw[i] += lr * grad
		}

		bounds.clamp(raw)
		total := sum(raw)
		if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
			return nil
		}
		for i := range raw {
			raw[i] /= total
		}
	}

	out := make([]float64, n)
	copy(out, raw)
	return out
}

// heuristic scores each asset as max(0, μ/σ − λσ) and weights in proportion.
// Zero volatility scores 0. All-zero scores yield equal weights.
func (o *Optimizer) heuristic(mu []float64, cov *CovarianceMatrix, lambda float64) []float64 {
	n := len(mu)
	scores := make([]float64, n)
	var total float64
	for i := 0; i < n; i++ {
		sigma := cov.Volatility(i)
		if sigma <= 0 || formulas.NearZero(sigma) {
			continue
		}
		score := mu[i]/sigma - lambda*sigma
		if score > 0 {
			scores[i] = score
			total += score
		}
	}

	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return equalWeights(n)
	}
	for i := range scores {
		scores[i] /= total
	}
	return scores
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}
