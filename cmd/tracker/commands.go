package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"github.com/phuslu/log"

	"PortfolioTracker/internal/notifier"
	"PortfolioTracker/internal/portfolio"
	"PortfolioTracker/internal/scheduler"
)

// retrySave gives a failed save one more attempt before a single-shot command
// exits and drops the in-memory change.
func retrySave(m *portfolio.Manager, err error) error {
	if !errors.Is(err, portfolio.ErrStorageWrite) {
		return err
	}
	if ferr := m.Flush(); ferr != nil {
		return ferr
	}
	log.Warn().Err(err).Msg("save succeeded on retry")
	return nil
}

// menuCmd runs the interactive numbered menu.
type menuCmd struct{}

func (*menuCmd) Name() string     { return "menu" }
func (*menuCmd) Synopsis() string { return "run the interactive menu (default)" }
func (*menuCmd) Usage() string {
	return `tracker [menu]

  Interactive menu: add, remove, update prices, view portfolio, exit.
`
}
func (*menuCmd) SetFlags(*flag.FlagSet) {}

func (*menuCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		reportOpenError(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	runMenu(ctx, a.manager, os.Stdin, os.Stdout)
	return subcommands.ExitSuccess
}

// addCmd adds a new position.
type addCmd struct {
	shares string
	price  string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a new position at the current market price" }
func (*addCmd) Usage() string {
	return `tracker add -shares <n> [-price <p>] <SYMBOL>

  Adds a position. Without -price the fetched market price is the cost basis.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.shares, "shares", "", "number of shares")
	f.StringVar(&c.price, "price", "", "purchase price per share (default: current price)")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "add: exactly one symbol is required")
		return subcommands.ExitUsageError
	}
	shares, err := portfolio.ParseNumber(c.shares)
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		return subcommands.ExitUsageError
	}
	price, err := portfolio.ParseOptionalNumber(c.price)
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		reportOpenError(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	pos, err := a.manager.Add(ctx, f.Arg(0), shares, price)
	if err = retrySave(a.manager, err); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %g shares at %.2f (market %.2f).\n", pos.Shares, pos.PurchasePrice, pos.CurrentPrice)
	return subcommands.ExitSuccess
}

// removeCmd removes a position.
type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a position" }
func (*removeCmd) Usage() string {
	return `tracker remove <SYMBOL>
`
}
func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (*removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "remove: exactly one symbol is required")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		reportOpenError(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := retrySave(a.manager, a.manager.Remove(f.Arg(0))); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		return subcommands.ExitFailure
	}
	fmt.Println("Removed.")
	return subcommands.ExitSuccess
}

// updateCmd modifies shares or cost basis of a held position.
type updateCmd struct {
	shares string
	price  string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change shares or purchase price of a held position" }
func (*updateCmd) Usage() string {
	return `tracker update [-shares <n>] [-price <p>] <SYMBOL>

  Only the given fields change. The purchase date is kept.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.shares, "shares", "", "new number of shares")
	f.StringVar(&c.price, "price", "", "new purchase price per share")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "update: exactly one symbol is required")
		return subcommands.ExitUsageError
	}
	shares, err := portfolio.ParseOptionalNumber(c.shares)
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		return subcommands.ExitUsageError
	}
	price, err := portfolio.ParseOptionalNumber(c.price)
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		return subcommands.ExitUsageError
	}
	if shares == nil && price == nil {
		fmt.Fprintln(os.Stderr, "update: nothing to change, give -shares and/or -price")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		reportOpenError(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	pos, err := a.manager.Update(f.Arg(0), shares, price)
	if err = retrySave(a.manager, err); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated: %g shares at %.2f, bought %s.\n", pos.Shares, pos.PurchasePrice, pos.PurchaseDate)
	return subcommands.ExitSuccess
}

// refreshCmd updates all prices and prints the report.
type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch current prices and display the portfolio" }
func (*refreshCmd) Usage() string {
	return `tracker refresh
`
}
func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		reportOpenError(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	result, err := a.manager.RefreshPrices(ctx)
	err = retrySave(a.manager, err)
	fmt.Print(notifier.FormatRefresh(result))
	fmt.Print(notifier.FormatValuation(a.manager.Valuation()))
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// viewCmd prints the valuation report without touching the network.
type viewCmd struct{}

func (*viewCmd) Name() string     { return "view" }
func (*viewCmd) Synopsis() string { return "display the portfolio with last known prices" }
func (*viewCmd) Usage() string {
	return `tracker view
`
}
func (*viewCmd) SetFlags(*flag.FlagSet) {}

func (*viewCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		reportOpenError(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	fmt.Print(notifier.FormatValuation(a.manager.Valuation()))
	return subcommands.ExitSuccess
}

// watchCmd refreshes prices on a cron schedule until interrupted.
type watchCmd struct {
	now bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh prices on a schedule and push reports" }
func (*watchCmd) Usage() string {
	return `tracker watch [-now]

  Runs schedule.refresh_cron until SIGINT/SIGTERM. Reports go to Telegram when
  configured, otherwise to the log. Telegram commands: /portfolio, /refresh.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.now, "now", os.Getenv("RUN_ON_START") == "true", "run a refresh immediately on start (env RUN_ON_START)")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		reportOpenError(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var n notifier.Notifier = notifier.NewLogNotifier()
	var tn *notifier.TelegramNotifier
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
		n = tn
	}

	sched := scheduler.NewScheduler(ctx, a.manager, n)
	if err := sched.RegisterRefresh(a.cfg.Schedule.RefreshCron); err != nil {
		log.Error().Err(err).Msg("register cron task")
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}
	if c.now {
		log.Info().Msg("running refresh on start")
		go sched.RunNow()
	}

	log.Info().Str("cron", a.cfg.Schedule.RefreshCron).Msg("tracker is watching, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	return subcommands.ExitSuccess
}
