package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/valutatrade/valutahub/internal/common"
)

// rateCmd shows the conversion rate between two currencies.
type rateCmd struct{}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show the conversion rate between two currencies" }
func (*rateCmd) Usage() string {
	return `valutahub rate <from> <to>

  Prints the rate for converting one unit of <from> into <to>, refreshing
  the cache first when it is stale.
`
}
func (*rateCmd) SetFlags(f *flag.FlagSet) {}

func (c *rateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return run("rate", func(app *App) error {
		quote, err := app.Rates.GetRate(ctx, f.Arg(0), f.Arg(1))
		if err != nil {
			return err
		}
		fmt.Printf("1 %s = %g %s\n", quote.From, quote.Rate, quote.To)
		if quote.Source != "" {
			fmt.Printf("  source: %s, refreshed: %s\n", quote.Source, quote.LastRefresh)
		}
		return nil
	})
}

// updateCmd refreshes the rate cache from the configured sources.
type updateCmd struct {
	source string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch fresh rates from the configured sources" }
func (*updateCmd) Usage() string {
	return `valutahub update [-source <name>]

  Fetches rates from every configured source, merges them into the cache
  and appends the observations to the history log. A failing source is
  reported and skipped; the remaining sources still contribute.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "", "Only update from the named source (case-insensitive).")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run("update", func(app *App) error {
		common.PrintBanner(app.Config, app.Logger)
		report, err := app.Updater.RunUpdate(ctx, c.source)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %d pairs, %d history records.\n", report.UpdatedPairs, report.HistoryRecords)
		for _, msg := range report.Errors {
			fmt.Printf("  error: %s\n", msg)
		}
		if report.LastRefresh != "" {
			fmt.Printf("Cache refreshed at %s.\n", report.LastRefresh)
		}
		return nil
	})
}

// currenciesCmd lists the known currencies.
type currenciesCmd struct{}

func (*currenciesCmd) Name() string             { return "currencies" }
func (*currenciesCmd) Synopsis() string         { return "list the known currencies" }
func (*currenciesCmd) Usage() string            { return "valutahub currencies\n" }
func (*currenciesCmd) SetFlags(f *flag.FlagSet) {}

func (c *currenciesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run("currencies", func(app *App) error {
		for _, currency := range app.Registry.All() {
			fmt.Println(currency.DisplayInfo())
		}
		return nil
	})
}

// versionCmd prints build information.
type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print version information" }
func (*versionCmd) Usage() string            { return "valutahub version\n" }
func (*versionCmd) SetFlags(f *flag.FlagSet) {}

func (c *versionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println(common.GetFullVersion())
	return subcommands.ExitSuccess
}
