package model

// PositionRow is one line of a valuation report.
type PositionRow struct {
	Symbol        string
	Shares        float64
	PurchasePrice float64
	CurrentPrice  float64
	PositionValue float64
	Investment    float64
	GainLoss      float64
	GainLossPct   float64
}

// ValuationReport is derived from a Portfolio and never stored.
type ValuationReport struct {
	Rows            []PositionRow // sorted by symbol
	TotalValue      float64
	TotalInvestment float64
	OverallGain     float64
	OverallGainPct  float64
}

// RefreshResult summarizes a full-portfolio price refresh.
type RefreshResult struct {
	Updated []string
	Failed  map[string]error
}

// Total returns the number of symbols visited by the refresh.
func (r RefreshResult) Total() int {
	return len(r.Updated) + len(r.Failed)
}
