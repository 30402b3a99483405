package notifier

import (
	"context"
	"strings"

	"github.com/phuslu/log"
)

// Notifier delivers a plain-text report somewhere outside the process.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// LogNotifier writes reports to the log. Used when no chat is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) Notify(_ context.Context, text string) error {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		log.Info().Msg(line)
	}
	return nil
}
