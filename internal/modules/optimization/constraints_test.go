package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstraints_Effective(t *testing.T) {
	c := DefaultConstraints()

	assert.Equal(t, Constraints{MinWeight: 0.01, MaxWeight: 0.5}, c.Effective(2))
	assert.Equal(t, c, c.Effective(5))
	// 1/200 is below the configured minimum
	assert.Equal(t, Constraints{MinWeight: 0.005, MaxWeight: 0.4}, c.Effective(200))
}

func TestConstraints_Project(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		c    Constraints
	}{
		{"shortfall", []float64{0.1, 0.1, 0.1, 0.1}, Constraints{MinWeight: 0.05, MaxWeight: 0.4}},
		{"excess", []float64{0.6, 0.5, 0.3}, Constraints{MinWeight: 0.05, MaxWeight: 0.4}},
		{"out of box", []float64{0.9, 0.0, 0.1, 0.0}, Constraints{MinWeight: 0.01, MaxWeight: 0.4}},
		{"already feasible", []float64{0.25, 0.25, 0.25, 0.25}, DefaultConstraints()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := append([]float64(nil), tt.in...)
			tt.c.project(w)
			assertSimplex(t, w, tt.c)
		})
	}
}
