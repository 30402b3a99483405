package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"PortfolioTracker/internal/notifier"
	"PortfolioTracker/internal/portfolio"
)

// menu is the numbered interactive loop. It runs one operation at a time.
type menu struct {
	m   *portfolio.Manager
	in  *bufio.Scanner
	out io.Writer
}

func runMenu(ctx context.Context, m *portfolio.Manager, in io.Reader, out io.Writer) {
	mu := &menu{m: m, in: bufio.NewScanner(in), out: out}
	for {
		mu.display()
		choice, ok := mu.prompt("Enter your choice (1-5): ")
		if !ok {
			fmt.Fprintln(out, "\nExiting Stock Portfolio Tracker.")
			return
		}

		switch strings.TrimSpace(choice) {
		case "1":
			mu.add(ctx)
		case "2":
			mu.remove()
		case "3":
			mu.refresh(ctx)
		case "4":
			mu.view()
		case "5":
			fmt.Fprintln(out, "Exiting Stock Portfolio Tracker.")
			return
		default:
			fmt.Fprintln(out, "Invalid choice. Please enter a number between 1 and 5.")
		}
	}
}

func (mu *menu) display() {
	fmt.Fprintln(mu.out, "\nStock Portfolio Tracker")
	fmt.Fprintln(mu.out, "1. Add Stock")
	fmt.Fprintln(mu.out, "2. Remove Stock")
	fmt.Fprintln(mu.out, "3. Update Prices")
	fmt.Fprintln(mu.out, "4. View Portfolio")
	fmt.Fprintln(mu.out, "5. Exit")
}

// prompt returns false once input is exhausted.
func (mu *menu) prompt(label string) (string, bool) {
	fmt.Fprint(mu.out, label)
	if !mu.in.Scan() {
		return "", false
	}
	return mu.in.Text(), true
}

func (mu *menu) add(ctx context.Context) {
	symbol, ok := mu.prompt("Enter stock symbol: ")
	if !ok {
		return
	}
	sharesIn, ok := mu.prompt("Enter number of shares: ")
	if !ok {
		return
	}
	priceIn, ok := mu.prompt("Enter purchase price (leave blank for current price): ")
	if !ok {
		return
	}

	shares, err := portfolio.ParseNumber(sharesIn)
	if err != nil {
		fmt.Fprintln(mu.out, describeError(err))
		return
	}
	price, err := portfolio.ParseOptionalNumber(priceIn)
	if err != nil {
		fmt.Fprintln(mu.out, describeError(err))
		return
	}

	if _, err := mu.m.Add(ctx, symbol, shares, price); err != nil {
		fmt.Fprintln(mu.out, describeError(err))
		if !mu.offerRetry(err) {
			return
		}
	}
	sym, _ := portfolio.NormalizeSymbol(symbol)
	fmt.Fprintf(mu.out, "Added %g shares of %s to your portfolio.\n", shares, sym)
}

func (mu *menu) remove() {
	symbol, ok := mu.prompt("Enter stock symbol to remove: ")
	if !ok {
		return
	}
	if err := mu.m.Remove(symbol); err != nil {
		fmt.Fprintln(mu.out, describeError(err))
		if !mu.offerRetry(err) {
			return
		}
	}
	sym, _ := portfolio.NormalizeSymbol(symbol)
	fmt.Fprintf(mu.out, "Removed %s from your portfolio.\n", sym)
}

func (mu *menu) refresh(ctx context.Context) {
	result, err := mu.m.RefreshPrices(ctx)
	if err != nil {
		fmt.Fprintln(mu.out, describeError(err))
		mu.offerRetry(err)
	}
	fmt.Fprint(mu.out, notifier.FormatRefresh(result))
	mu.view()
}

func (mu *menu) view() {
	fmt.Fprint(mu.out, "\n"+notifier.FormatValuation(mu.m.Valuation()))
}

// offerRetry offers to re-save after a storage write failure. It reports
// whether the portfolio is durable again.
func (mu *menu) offerRetry(err error) bool {
	if !errors.Is(err, portfolio.ErrStorageWrite) {
		return false
	}
	for {
		answer, ok := mu.prompt("Retry saving? (y/n): ")
		if !ok || !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Fprintln(mu.out, "Unsaved changes are kept in memory and saved with the next successful change.")
			return false
		}
		if err := mu.m.Flush(); err != nil {
			fmt.Fprintln(mu.out, describeError(err))
			continue
		}
		fmt.Fprintln(mu.out, "Portfolio saved.")
		return true
	}
}
