// Command tracker keeps a stock portfolio in a local JSON file and values it
// against live quotes.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

func main() {
	setupLogging("info")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&menuCmd{}, "portfolio")
	subcommands.Register(&addCmd{}, "portfolio")
	subcommands.Register(&removeCmd{}, "portfolio")
	subcommands.Register(&updateCmd{}, "portfolio")
	subcommands.Register(&refreshCmd{}, "portfolio")
	subcommands.Register(&viewCmd{}, "portfolio")

	subcommands.Register(&watchCmd{}, "service")

	flag.Parse()
	ctx := context.Background()

	// No subcommand means the interactive menu.
	if flag.NArg() == 0 {
		os.Exit(int((&menuCmd{}).Execute(ctx, flag.CommandLine)))
	}
	os.Exit(int(subcommands.Execute(ctx)))
}

func setupLogging(level string) {
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer:      os.Stderr,
			ColorOutput: log.IsTerminal(os.Stderr.Fd()),
		},
	}
}
