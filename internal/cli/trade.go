package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/valutatrade/valutahub/internal/models"
)

func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &models.InvalidAmountError{Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return amount, nil
}

// buyCmd credits a wallet.
type buyCmd struct{}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy an amount of a currency" }
func (*buyCmd) Usage() string {
	return `valutahub buy <code> <amount>

  Credits the wallet for the currency, creating it if needed. Requires an
  active session.
`
}
func (*buyCmd) SetFlags(f *flag.FlagSet) {}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return run("buy", func(app *App) error {
		amount, err := parseAmount(f.Arg(1))
		if err != nil {
			return err
		}
		result, err := app.Ledger.BuyCurrency(ctx, f.Arg(0), amount)
		if err != nil {
			return err
		}
		fmt.Printf("Bought %g %s. New balance: %g %s\n",
			result.Amount, result.Code, result.Balance, result.Code)
		return nil
	})
}

// sellCmd debits a wallet.
type sellCmd struct{}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell an amount of a currency" }
func (*sellCmd) Usage() string {
	return `valutahub sell <code> <amount>

  Debits the wallet for the currency. Selling more than the balance, or a
  currency you hold no wallet for, fails. Requires an active session.
`
}
func (*sellCmd) SetFlags(f *flag.FlagSet) {}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return run("sell", func(app *App) error {
		amount, err := parseAmount(f.Arg(1))
		if err != nil {
			return err
		}
		result, err := app.Ledger.SellCurrency(ctx, f.Arg(0), amount)
		if err != nil {
			return err
		}
		fmt.Printf("Sold %g %s. New balance: %g %s\n",
			result.Amount, result.Code, result.Balance, result.Code)
		return nil
	})
}

// portfolioCmd values the portfolio in a base currency.
type portfolioCmd struct {
	base string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show the portfolio valued in a base currency" }
func (*portfolioCmd) Usage() string {
	return `valutahub portfolio [-base <code>]

  Lists every wallet with its balance and its value in the base currency.
  A single currency without a usable rate aborts the whole valuation.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "Base currency for valuation (defaults to the configured base).")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run("portfolio", func(app *App) error {
		base := c.base
		if base == "" {
			base = app.Config.BaseCurrency
		}
		view, err := app.Ledger.ShowPortfolio(ctx, base)
		if err != nil {
			return err
		}
		fmt.Printf("Portfolio of %s (valued in %s):\n", view.Username, view.Base)
		if len(view.Entries) == 0 {
			fmt.Println("  (empty)")
			return nil
		}
		for _, entry := range view.Entries {
			fmt.Printf("  %-5s %14.4f  = %14.2f %s\n", entry.Code, entry.Balance, entry.Value, view.Base)
		}
		fmt.Printf("  %-5s %14s  = %14.2f %s\n", "TOTAL", "", view.Total, view.Base)
		return nil
	})
}
