// Package allocation turns a weight vector into a per-symbol allocation table.
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/aristath/advisor/internal/domain"
)

// RiskLevel classifies an asset by annualized volatility
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very high"
)

// UnknownCompany is shown for symbols missing from the company directory.
const UnknownCompany = "Unknown company"

var companyNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"GOOGL": "Alphabet Inc.",
	"MSFT":  "Microsoft Corp.",
	"TSLA":  "Tesla Inc.",
	"AMZN":  "Amazon.com Inc.",
	"NVDA":  "NVIDIA Corp.",
	"META":  "Meta Platforms Inc.",
	"BRK.B": "Berkshire Hathaway",
	"V":     "Visa Inc.",
	"JPM":   "JPMorgan Chase",
	"UNH":   "UnitedHealth Group",
	"HD":    "Home Depot",
	"PG":    "Procter & Gamble",
	"MA":    "Mastercard Inc.",
	"BAC":   "Bank of America",
}

// CompanyName returns the display name for symbol
func CompanyName(symbol string) string {
	if name, ok := companyNames[symbol]; ok {
		return name
	}
	return UnknownCompany
}

// ClassifyRisk maps annualized volatility to a RiskLevel
func ClassifyRisk(volatility float64) RiskLevel {
	switch {
	case volatility < 0.15:
		return RiskLow
	case volatility < 0.25:
		return RiskMedium
	case volatility < 0.35:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}

// Row is one line of the allocation table
type Row struct {
	Symbol         string           `json:"symbol"`
	Company        string           `json:"company"`
	Weight         float64          `json:"weight"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	ExpectedReturn float64          `json:"expectedReturn"` // percent
	Volatility     float64          `json:"volatility"`     // percent
	RiskLevel      RiskLevel        `json:"riskLevel"`
	Simulated      bool             `json:"isSimulated"`
}

// Build creates the allocation table. series and weights must be aligned;
// extra entries on either side are ignored. A zero investment omits amounts.
func Build(series []domain.ReturnSeries, weights []float64, investment decimal.Decimal) []Row {
	n := len(series)
	if len(weights) < n {
		n = len(weights)
	}

	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		s := series[i]
		vol := s.Volatility()
		row := Row{
			Symbol:         s.Symbol,
			Company:        CompanyName(s.Symbol),
			Weight:         weights[i],
			ExpectedReturn: s.ExpectedReturn() * 100,
			Volatility:     vol * 100,
			RiskLevel:      ClassifyRisk(vol),
			Simulated:      s.Simulated,
		}
		if investment.IsPositive() {
			amount := investment.Mul(decimal.NewFromFloat(weights[i])).Round(2)
			row.Amount = &amount
		}
		rows = append(rows, row)
	}
	return rows
}
