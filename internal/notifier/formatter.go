package notifier

import (
	"fmt"
	"sort"
	"strings"

	"PortfolioTracker/internal/model"
)

var rule = strings.Repeat("-", 80)

// FormatValuation renders the valuation report as a fixed-width table.
func FormatValuation(r model.ValuationReport) string {
	var b strings.Builder

	b.WriteString("Portfolio Summary:\n")
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("%-10s%10s%15s%15s%15s%15s\n", "Symbol", "Shares", "Avg Cost", "Current", "Value", "Gain/Loss"))
	b.WriteString(rule + "\n")

	if len(r.Rows) == 0 {
		b.WriteString("(no positions)\n")
	}
	for _, row := range r.Rows {
		b.WriteString(fmt.Sprintf("%-10s%10.2f%15.2f%15.2f%15.2f%15.2f (%.2f%%)\n",
			row.Symbol, row.Shares, row.PurchasePrice, row.CurrentPrice,
			row.PositionValue, row.GainLoss, row.GainLossPct))
	}

	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Total Portfolio Value: $%.2f\n", r.TotalValue))
	b.WriteString(fmt.Sprintf("Total Investment: $%.2f\n", r.TotalInvestment))
	b.WriteString(fmt.Sprintf("Total Gain/Loss: $%.2f (%.2f%%)\n", r.OverallGain, r.OverallGainPct))
	b.WriteString(rule + "\n")
	return b.String()
}

// FormatRefresh summarizes a price refresh.
func FormatRefresh(r model.RefreshResult) string {
	if len(r.Failed) == 0 {
		return fmt.Sprintf("Portfolio prices updated (%d/%d).\n", len(r.Updated), r.Total())
	}
	failed := make([]string, 0, len(r.Failed))
	for sym := range r.Failed {
		failed = append(failed, sym)
	}
	sort.Strings(failed)
	return fmt.Sprintf("Portfolio prices updated (%d/%d). Kept last price for: %s\n",
		len(r.Updated), r.Total(), strings.Join(failed, ", "))
}
