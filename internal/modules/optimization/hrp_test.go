package optimization

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/internal/domain"
)

func TestHierarchicalRiskParity_InverseVarianceForTwoAssets(t *testing.T) {
	input := []domain.ReturnSeries{
		series("LOW", 0.01, -0.01, 0.01, -0.01),
		series("HIGH", 0.02, -0.02, 0.02, -0.02),
	}
	cov, err := EstimateCovariance(input, DefaultCorrelationFallback)
	require.NoError(t, err)

	w := hierarchicalRiskParity(cov)
	require.Len(t, w, 2)
	// Variances are 1:4, so weights are 4:1
	assert.InDelta(t, 0.8, w[0], 1e-12)
	assert.InDelta(t, 0.2, w[1], 1e-12)
}

func TestHierarchicalRiskParity_EqualRiskGetsEqualWeight(t *testing.T) {
	input := []domain.ReturnSeries{
		series("A", 0.01, -0.01, 0.01, -0.01),
		series("B", -0.01, 0.01, -0.01, 0.01),
		series("C", 0.01, 0.01, -0.01, -0.01),
		series("D", -0.01, -0.01, 0.01, 0.01),
	}
	cov, err := EstimateCovariance(input, DefaultCorrelationFallback)
	require.NoError(t, err)

	w := hierarchicalRiskParity(cov)
	require.Len(t, w, 4)
	for i := range w {
		assert.InDelta(t, 0.25, w[i], 1e-12)
	}
}

func TestOptimize_RiskParityIgnoresRiskTolerance(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	input := randomSeries(rng, 6, 90)
	cov, err := EstimateCovariance(input, DefaultCorrelationFallback)
	require.NoError(t, err)

	opt := NewOptimizer().WithStrategy(StrategyRiskParity)
	open := Constraints{MinWeight: 0, MaxWeight: 1}

	conservative, err := opt.Optimize(expectedReturns(input), cov, 1, open)
	require.NoError(t, err)
	aggressive, err := opt.Optimize(expectedReturns(input), cov, 10, open)
	require.NoError(t, err)

	assert.Equal(t, conservative, aggressive)
	assertSimplex(t, conservative, open)
}

func TestLinkAverage_MergesClosestFirst(t *testing.T) {
	dist := [][]float64{
		{0, 0.9, 0.1},
		{0.9, 0, 0.8},
		{0.1, 0.8, 0},
	}

	root := linkAverage(dist)
	require.False(t, root.leaf())
	assert.ElementsMatch(t, []int{0, 1, 2}, root.members)

	// 0 and 2 are merged first, so they are adjacent in the leaf order
	assert.Equal(t, []int{0, 2, 1}, leafOrder(root))
}
