package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(ctx, os.Args[2:], os.Stdout)
	case "trend":
		err = runTrend(ctx, os.Args[2:], os.Stdout)
	case "layouts":
		err = runLayouts(os.Args[2:], os.Stdout)
	case "rates":
		err = runRates(ctx, os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		if !errors.Is(err, errAllFilesFailed) {
			slog.Error("command failed", "command", os.Args[1], "error", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Credit card statement analyzer")
	fmt.Println("\nUsage:")
	fmt.Println("  analyzer <command> [options] [files...]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Extract transactions and rank merchants")
	fmt.Println("  trend     Show the monthly spend of one merchant")
	fmt.Println("  layouts   List the supported statement layouts")
	fmt.Println("  rates     Show the current currency rates")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'analyzer <command> -h' for more information on a command.")
}

// setupLogging installs a text handler on stderr at the given level.
func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
