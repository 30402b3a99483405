package recorder

// Position event types.
const (
	EventAdd    = "ADD"
	EventRemove = "REMOVE"
	EventUpdate = "UPDATE"
)

// PositionEvent records a single mutation of the portfolio.
type PositionEvent struct {
	EventType     string // EventAdd, EventRemove or EventUpdate
	Symbol        string
	Shares        float64
	PurchasePrice float64
	CurrentPrice  float64
	PurchaseDate  string
}

// RefreshEvent records one full-portfolio price refresh.
type RefreshEvent struct {
	Total      int
	Updated    int
	Failed     int
	FailedList []string
	TotalValue float64
}

// Recorder journals portfolio activity for later analysis.
type Recorder interface {
	RecordPositionEvent(evt *PositionEvent) error
	RecordRefresh(evt *RefreshEvent) error
	Close() error
}
