// Package advice generates rule-based recommendations from backtest metrics.
package advice

import (
	"fmt"
	"sort"

	"github.com/aristath/advisor/internal/domain"
)

// Priority orders recommendations for display
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Recommendation is a single piece of advice
type Recommendation struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Priority Priority `json:"priority"`
}

// Input carries everything the rules look at
type Input struct {
	Symbols       []string
	Weights       []float64
	Metrics       domain.PerformanceMetrics
	RiskTolerance int
}

// Thresholds used by the rules. Metrics are in percent.
const (
	StrongSharpe        = 1.5
	WeakSharpe          = 0.5
	DrawdownAlert       = 25.0
	ConcentrationAlert  = 0.4
	ConcentrationTarget = 30.0
	VolatilityAlert     = 25.0
	ConservativeMax     = 3
	AggressiveMin       = 8
	WinRateAlert        = 45.0
)

// Generate evaluates every rule and returns the matches sorted high → low.
// Rules of equal priority keep their evaluation order.
func Generate(in Input) []Recommendation {
	m := in.Metrics
	var recs []Recommendation

	switch {
	case m.SharpeRatio > StrongSharpe:
		recs = append(recs, Recommendation{
			Title: "Excellent risk-adjusted return",
			Content: fmt.Sprintf("The portfolio Sharpe ratio is %.2f: every unit of risk earned %.2f units of excess return. "+
				"Keeping the current allocation is reasonable.", m.SharpeRatio, m.SharpeRatio),
			Priority: PriorityHigh,
		})
	case m.SharpeRatio < WeakSharpe:
		recs = append(recs, Recommendation{
			Title: "Improve the risk/return trade-off",
			Content: fmt.Sprintf("The Sharpe ratio of %.2f is low. Consider shifting weight toward higher quality names "+
				"or adding defensive assets.", m.SharpeRatio),
			Priority: PriorityMedium,
		})
	}

	if m.MaxDrawdown > DrawdownAlert {
		recs = append(recs, Recommendation{
			Title: "Protect against downside risk",
			Content: fmt.Sprintf("Maximum drawdown reached %.1f%%. Adding defensive holdings such as bond ETFs or "+
				"low-volatility stocks would reduce overall portfolio risk.", m.MaxDrawdown),
			Priority: PriorityHigh,
		})
	}

	if idx, maxWeight := largestWeight(in.Weights); idx >= 0 && maxWeight > ConcentrationAlert {
		symbol := "One holding"
		if idx < len(in.Symbols) {
			symbol = in.Symbols[idx]
		}
		recs = append(recs, Recommendation{
			Title: "Reduce concentration",
			Content: fmt.Sprintf("%s makes up %.1f%% of the portfolio. Keep any single asset under %.0f%% "+
				"to limit idiosyncratic risk.", symbol, maxWeight*100, ConcentrationTarget),
			Priority: PriorityMedium,
		})
	}

	if m.Volatility > VolatilityAlert {
		recs = append(recs, Recommendation{
			Title: "Manage portfolio volatility",
			Content: fmt.Sprintf("Annualized volatility is %.1f%%. Large-cap or utility stocks can dampen swings "+
				"if lower volatility is preferred.", m.Volatility),
			Priority: PriorityLow,
		})
	}

	switch {
	case in.RiskTolerance <= ConservativeMax:
		recs = append(recs, Recommendation{
			Title: "Conservative strategy",
			Content: "With a low risk tolerance, regular fixed-amount investing in dividend-paying blue chips works well. " +
				"Holding 10-20% in bond ETFs lowers volatility further.",
			Priority: PriorityHigh,
		})
	case in.RiskTolerance >= AggressiveMin:
		recs = append(recs, Recommendation{
			Title: "Aggressive growth strategy",
			Content: "A high risk tolerance suits a growth strategy with more technology and emerging-sector exposure. " +
				"Set stop-loss levels and watch market trends closely.",
			Priority: PriorityHigh,
		})
	}

	if m.WinRate < WinRateAlert {
		recs = append(recs, Recommendation{
			Title: "Raise the hit rate",
			Content: fmt.Sprintf("Only %.1f%% of trading days were positive. Technical or fundamental screens "+
				"could improve selection.", m.WinRate),
			Priority: PriorityMedium,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.rank() > recs[j].Priority.rank()
	})
	return recs
}

func largestWeight(weights []float64) (int, float64) {
	idx := -1
	maxWeight := 0.0
	for i, w := range weights {
		if idx < 0 || w > maxWeight {
			idx = i
			maxWeight = w
		}
	}
	return idx, maxWeight
}
