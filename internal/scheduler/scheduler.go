package scheduler

import (
	"context"
	"fmt"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"PortfolioTracker/internal/notifier"
	"PortfolioTracker/internal/portfolio"
)

// Scheduler runs periodic price refreshes and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Manager  *portfolio.Manager
	Notifier notifier.Notifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, m *portfolio.Manager, n notifier.Notifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Manager:  m,
		Notifier: n,
		Ctx:      ctx,
	}
}

// RegisterRefresh schedules the refresh task. The cron expression includes a seconds field.
func (s *Scheduler) RegisterRefresh(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Info().Msg("running scheduled refresh")
	report, err := s.refresh(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduled refresh")
	}
	s.trySend(report)
}

// refresh updates prices and returns the refresh summary with the valuation table.
// A save error is returned alongside the report; the in-memory prices stay updated.
func (s *Scheduler) refresh(ctx context.Context) (string, error) {
	result, err := s.Manager.RefreshPrices(ctx)
	report := notifier.FormatRefresh(result) + "\n" + notifier.FormatValuation(s.Manager.Valuation())
	if err != nil {
		report += fmt.Sprintf("\nWarning: prices not saved: %v\n", err)
	}
	return report, err
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/portfolio", "/view":
		return notifier.FormatValuation(s.Manager.Valuation())
	case "/refresh", "/update":
		report, _ := s.refresh(ctx)
		return report
	default:
		return "Available commands:\n/portfolio - view portfolio\n/refresh - update prices and view portfolio"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Notify(s.Ctx, text); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
