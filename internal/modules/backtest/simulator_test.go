package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/internal/domain"
)

func TestSimulate_Compounding(t *testing.T) {
	series := []domain.ReturnSeries{
		domain.NewReturnSeries("A", []float64{0.01, -0.02}, 10, false),
		domain.NewReturnSeries("B", []float64{0.01, -0.02}, 20, false),
	}

	result, err := Simulate(series, []float64{0.5, 0.5})
	require.NoError(t, err)

	require.Len(t, result.ValuePath, 3)
	assert.Equal(t, 100.0, result.ValuePath[0])
	assert.InDelta(t, 101.0, result.ValuePath[1], 1e-9)
	assert.InDelta(t, 98.98, result.ValuePath[2], 1e-9)
	assert.InDeltaSlice(t, []float64{0.01, -0.02}, result.PortfolioReturns, 1e-15)
}

func TestSimulate_WeightedCombination(t *testing.T) {
	series := []domain.ReturnSeries{
		domain.NewReturnSeries("A", []float64{0.10}, 10, false),
		domain.NewReturnSeries("B", []float64{-0.10}, 10, false),
	}

	result, err := Simulate(series, []float64{0.75, 0.25})
	require.NoError(t, err)
	assert.InDelta(t, 0.05, result.PortfolioReturns[0], 1e-15)
	assert.InDelta(t, 105.0, result.ValuePath[1], 1e-9)
}

func TestSimulate_DimensionMismatch(t *testing.T) {
	a := domain.NewReturnSeries("A", []float64{0.01, 0.02}, 10, false)
	b := domain.NewReturnSeries("B", []float64{0.01}, 10, false)

	t.Run("weights length", func(t *testing.T) {
		_, err := Simulate([]domain.ReturnSeries{a, a}, []float64{1})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unequal series", func(t *testing.T) {
		_, err := Simulate([]domain.ReturnSeries{a, b}, []float64{0.5, 0.5})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Simulate(nil, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSimulate_Deterministic(t *testing.T) {
	series := []domain.ReturnSeries{
		domain.NewReturnSeries("A", []float64{0.01, 0.03, -0.01}, 10, false),
		domain.NewReturnSeries("B", []float64{-0.02, 0.01, 0.02}, 10, false),
	}
	a, err := Simulate(series, []float64{0.3, 0.7})
	require.NoError(t, err)
	b, err := Simulate(series, []float64{0.3, 0.7})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
