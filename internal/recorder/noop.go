package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPositionEvent(_ *PositionEvent) error { return nil }
func (n *NoopRecorder) RecordRefresh(_ *RefreshEvent) error        { return nil }
func (n *NoopRecorder) Close() error                               { return nil }
