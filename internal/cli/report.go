package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aristath/advisor/internal/modules/advice"
	"github.com/aristath/advisor/internal/modules/advisor"
	"github.com/aristath/advisor/internal/modules/allocation"
)

// Palette
var (
	colorBorder  = lipgloss.Color("#4D4C57")
	colorMuted   = lipgloss.Color("#858392")
	colorPrimary = lipgloss.Color("#6B50FF")
	colorSuccess = lipgloss.Color("#00FFB2")
	colorWarning = lipgloss.Color("#FFD300")
	colorError   = lipgloss.Color("#E94090")
	colorInfo    = lipgloss.Color("#00CED1")
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorInfo).
		MarginTop(1)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	boxStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	headerCellStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle       = lipgloss.NewStyle().Padding(0, 1)
)

// RenderReport formats an analysis for the terminal
func RenderReport(res *advisor.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Portfolio Analysis"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s · risk %d/10 (%s) · %s optimizer · %d trading days",
		res.ID, res.RiskTolerance, res.RiskLabel, res.Strategy, res.Metrics.TradingDays)))
	b.WriteString("\n")

	if len(res.SimulatedSymbols) > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(colorWarning).Render(
			"Simulated data: " + strings.Join(res.SimulatedSymbols, ", ")))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Allocation"))
	b.WriteString("\n")
	b.WriteString(renderAllocation(res.Allocation))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Backtest"))
	b.WriteString("\n")
	b.WriteString(renderMetrics(res))
	b.WriteString("\n")

	if len(res.Advice) > 0 {
		b.WriteString(sectionStyle.Render("Recommendations"))
		b.WriteString("\n")
		for _, rec := range res.Advice {
			b.WriteString(renderRecommendation(rec))
			b.WriteString("\n")
		}
	}

	if res.Commentary != "" {
		b.WriteString(sectionStyle.Render("Commentary"))
		b.WriteString("\n")
		b.WriteString(boxStyle.Width(78).Render(res.Commentary))
		b.WriteString("\n")
	}

	return b.String()
}

func renderAllocation(rows []allocation.Row) string {
	headers := []string{"Symbol", "Company", "Weight", "Amount", "Exp. Return", "Volatility", "Risk"}

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		amount := "-"
		if row.Amount != nil {
			amount = row.Amount.StringFixed(2)
		}
		symbol := row.Symbol
		if row.Simulated {
			symbol += "*"
		}
		data = append(data, []string{
			symbol,
			row.Company,
			fmt.Sprintf("%.2f%%", row.Weight*100),
			amount,
			fmt.Sprintf("%.2f%%", row.ExpectedReturn),
			fmt.Sprintf("%.2f%%", row.Volatility),
			string(row.RiskLevel),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			if col == 6 && row >= 0 && row < len(rows) {
				return cellStyle.Foreground(riskColor(rows[row].RiskLevel))
			}
			return cellStyle
		})

	return t.Render()
}

func renderMetrics(res *advisor.AnalysisResult) string {
	m := res.Metrics
	lines := []string{
		metricLine("Total return", fmt.Sprintf("%.2f%%", m.TotalReturn), m.TotalReturn >= 0),
		metricLine("Annualized return", fmt.Sprintf("%.2f%%", m.AnnualizedReturn), m.AnnualizedReturn >= 0),
		metricLine("Volatility", fmt.Sprintf("%.2f%%", m.Volatility), true),
		metricLine("Sharpe ratio", fmt.Sprintf("%.2f", m.SharpeRatio), m.SharpeRatio >= advice.WeakSharpe),
		metricLine("Sortino ratio", fmt.Sprintf("%.2f", m.SortinoRatio), m.SortinoRatio >= 0),
		metricLine("Max drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown), m.MaxDrawdown <= advice.DrawdownAlert),
		metricLine("Win rate", fmt.Sprintf("%.2f%%", m.WinRate), m.WinRate >= advice.WinRateAlert),
	}
	if n := len(res.ValuePath); n > 0 {
		lines = append(lines, metricLine("Final value", fmt.Sprintf("%.2f", res.ValuePath[n-1]), res.ValuePath[n-1] >= res.ValuePath[0]))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func metricLine(label, value string, good bool) string {
	color := colorSuccess
	if !good {
		color = colorError
	}
	return fmt.Sprintf("%-18s %s", label, lipgloss.NewStyle().Foreground(color).Render(value))
}

func renderRecommendation(rec advice.Recommendation) string {
	color := colorInfo
	switch rec.Priority {
	case advice.PriorityHigh:
		color = colorError
	case advice.PriorityMedium:
		color = colorWarning
	}
	tag := lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("[%s]", rec.Priority))
	return fmt.Sprintf("%s %s\n    %s", tag, lipgloss.NewStyle().Bold(true).Render(rec.Title), rec.Content)
}

func riskColor(level allocation.RiskLevel) lipgloss.Color {
	switch level {
	case allocation.RiskLow:
		return colorSuccess
	case allocation.RiskMedium:
		return colorInfo
	case allocation.RiskHigh:
		return colorWarning
	default:
		return colorError
	}
}
