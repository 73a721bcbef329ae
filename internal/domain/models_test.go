package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnSeries_CopiesInput(t *testing.T) {
	returns := []float64{0.01, 0.02}
	s := NewReturnSeries("AAPL", returns, 150, false)

	returns[0] = 99
	assert.Equal(t, 0.01, s.DailyReturns[0])
	assert.Equal(t, 2, s.Len())
}

func TestReturnSeries_DerivedStatistics(t *testing.T) {
	s := NewReturnSeries("X", []float64{0.01, -0.01, 0.01, -0.01}, 100, false)

	assert.InDelta(t, 0.0, s.ExpectedReturn(), 1e-12)
	assert.InDelta(t, 0.01*math.Sqrt(252), s.Volatility(), 1e-12)

	c := NewReturnSeries("C", []float64{0.001, 0.001, 0.001}, 100, false)
	assert.InDelta(t, 0.252, c.ExpectedReturn(), 1e-12)
	assert.InDelta(t, 0.0, c.Volatility(), 1e-9)
}

func TestReturnSeries_Tail(t *testing.T) {
	s := NewReturnSeries("X", []float64{1, 2, 3, 4}, 10, true)

	tail := s.Tail(2)
	assert.Equal(t, []float64{3, 4}, tail.DailyReturns)
	assert.True(t, tail.Simulated)
	assert.Equal(t, "X", tail.Symbol)

	assert.Equal(t, s.DailyReturns, s.Tail(10).DailyReturns)
	assert.Empty(t, s.Tail(-1).DailyReturns)
}

func TestNormalizeSymbols(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"trims and uppercases", []string{" aapl ", "msft"}, []string{"AAPL", "MSFT"}},
		{"drops duplicates keeping order", []string{"MSFT", "aapl", "msft"}, []string{"MSFT", "AAPL"}},
		{"splits comma lists", []string{"aapl,googl, ,nvda"}, []string{"AAPL", "GOOGL", "NVDA"}},
		{"empty input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSymbols(tt.input))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("symbols", "need at least %d", 2)
	assert.Equal(t, "invalid symbols: need at least 2", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrDimensionMismatch))

	wrapped := fmt.Errorf("failed to analyze: %w", err)
	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "symbols", ve.Field)
}

func TestDimensionMismatch(t *testing.T) {
	err := DimensionMismatch("weights", "got %d weights for %d series", 1, 2)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestInsufficientData(t *testing.T) {
	err := InsufficientData("no returns for %s", "AAPL")
	assert.True(t, errors.Is(err, ErrInsufficientData))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "AAPL")
}

func TestRiskLabel(t *testing.T) {
	assert.Equal(t, "Very Low", RiskLabel(1))
	assert.Equal(t, "Medium", RiskLabel(5))
	assert.Equal(t, "Aggressive", RiskLabel(10))
	assert.Equal(t, "Very Low", RiskLabel(0))
	assert.Equal(t, "Aggressive", RiskLabel(42))
}

func TestValidateRiskTolerance(t *testing.T) {
	for rt := 1; rt <= 10; rt++ {
		assert.NoError(t, ValidateRiskTolerance(rt))
	}
	assert.ErrorIs(t, ValidateRiskTolerance(0), ErrValidation)
	assert.ErrorIs(t, ValidateRiskTolerance(11), ErrValidation)
}
