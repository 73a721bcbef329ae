package optimization

import (
	"math"

	"github.com/aristath/advisor/internal/domain"
)

// Default per-asset weight bounds
const (
	DefaultMinWeight = 0.01
	DefaultMaxWeight = 0.40
)

// Constraints bounds every individual weight.
type Constraints struct {
	MinWeight float64 `json:"minWeight"`
	MaxWeight float64 `json:"maxWeight"`
}

// DefaultConstraints returns {0.01, 0.40}.
func DefaultConstraints() Constraints {
	return Constraints{MinWeight: DefaultMinWeight, MaxWeight: DefaultMaxWeight}
}

// Validate checks 0 ≤ MinWeight ≤ MaxWeight ≤ 1.
func (c Constraints) Validate() error {
	if math.IsNaN(c.MinWeight) || c.MinWeight < 0 {
		return domain.NewValidationError("constraints.minWeight", "must be >= 0, got %v", c.MinWeight)
	}
	if math.IsNaN(c.MaxWeight) || c.MaxWeight > 1 {
		return domain.NewValidationError("constraints.maxWeight", "must be <= 1, got %v", c.MaxWeight)
	}
	if c.MinWeight > c.MaxWeight {
		return domain.NewValidationError("constraints", "minWeight %.4f exceeds maxWeight %.4f", c.MinWeight, c.MaxWeight)
	}
	return nil
}

// Effective widens the bounds so that a weight vector summing to 1 exists
// for n assets: the max is raised to at least 1/n and the min is lowered to
// at most 1/n.
func (c Constraints) Effective(n int) Constraints {
	if n <= 0 {
		return c
	}
	equal := 1.0 / float64(n)
	return Constraints{
		MinWeight: math.Min(c.MinWeight, equal),
		MaxWeight: math.Max(c.MaxWeight, equal),
	}
}

// clamp bounds every weight into [MinWeight, MaxWeight] in place.
func (c Constraints) clamp(w []float64) {
	for i := range w {
		w[i] = math.Max(c.MinWeight, math.Min(c.MaxWeight, w[i]))
	}
}

// project moves w onto {Σw = 1, min ≤ w ≤ max}. After clamping, the shortfall
// (or excess) is spread in proportion to each weight's remaining room, which
// keeps every weight inside its bounds. c must be feasible for len(w).
func (c Constraints) project(w []float64) {
	c.clamp(w)

	diff := 1 - sum(w)
	if diff == 0 {
		return
	}

	room := make([]float64, len(w))
	var total float64
	for i, x := range w {
		if diff > 0 {
			room[i] = c.MaxWeight - x
		} else {
			room[i] = x - c.MinWeight
		}
		total += room[i]
	}
	if total <= 0 {
		return
	}

	for i := range w {
		w[i] += diff * room[i] / total
	}
	c.clamp(w)
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}
