package calculator

import (
	"sort"

	"PortfolioTracker/internal/model"
)

// Percent returns gain as a percentage of base, or 0 when base is zero.
func Percent(gain, base float64) float64 {
	if base == 0 {
		return 0
	}
	return gain / base * 100
}

// ValuatePosition computes the report row for a single position.
func ValuatePosition(symbol string, pos model.Position) model.PositionRow {
	value := pos.Shares * pos.CurrentPrice
	investment := pos.Shares * pos.PurchasePrice
	gain := value - investment
	return model.PositionRow{
		Symbol:        symbol,
		Shares:        pos.Shares,
		PurchasePrice: pos.PurchasePrice,
		CurrentPrice:  pos.CurrentPrice,
		PositionValue: value,
		Investment:    investment,
		GainLoss:      gain,
		GainLossPct:   Percent(gain, investment),
	}
}

// Valuate builds the full valuation report. It does not modify p.
func Valuate(p model.Portfolio) model.ValuationReport {
	symbols := make([]string, 0, len(p))
	for sym := range p {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	report := model.ValuationReport{Rows: make([]model.PositionRow, 0, len(symbols))}
	for _, sym := range symbols {
		row := ValuatePosition(sym, p[sym])
		report.Rows = append(report.Rows, row)
		report.TotalValue += row.PositionValue
		report.TotalInvestment += row.Investment
	}
	report.OverallGain = report.TotalValue - report.TotalInvestment
	report.OverallGainPct = Percent(report.OverallGain, report.TotalInvestment)
	return report
}
