package model

// DateLayout is the on-disk layout of Position.PurchaseDate.
const DateLayout = "2006-01-02"

// Position is a held quantity of one ticker symbol.
type Position struct {
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
	CurrentPrice  float64 `json:"current_price"`
	PurchaseDate  string  `json:"purchase_date"`
}

// Portfolio maps an uppercase ticker symbol to its position.
type Portfolio map[string]Position

// Clone returns an independent copy of the portfolio.
func (p Portfolio) Clone() Portfolio {
	out := make(Portfolio, len(p))
	for sym, pos := range p {
		out[sym] = pos
	}
	return out
}
