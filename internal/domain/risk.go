package domain

// MinRiskTolerance and MaxRiskTolerance bound the user's risk tolerance scale
const (
	MinRiskTolerance = 1
	MaxRiskTolerance = 10
)

var riskLabels = [...]string{
	"Very Low",
	"Low",
	"Lower",
	"Medium-Low",
	"Medium",
	"Medium-High",
	"Higher",
	"High",
	"Very High",
	"Aggressive",
}

// RiskLabel returns the display label for a risk tolerance in [1,10].
// Out of range values are clamped.
func RiskLabel(riskTolerance int) string {
	if riskTolerance < MinRiskTolerance {
		riskTolerance = MinRiskTolerance
	}
	if riskTolerance > MaxRiskTolerance {
		riskTolerance = MaxRiskTolerance
	}
	return riskLabels[riskTolerance-1]
}

// ValidateRiskTolerance returns a ValidationError when rt is outside [1,10]
func ValidateRiskTolerance(rt int) error {
	if rt < MinRiskTolerance || rt > MaxRiskTolerance {
		return NewValidationError("riskTolerance", "must be between %d and %d, got %d",
			MinRiskTolerance, MaxRiskTolerance, rt)
	}
	return nil
}
