// Package cli implements the valutahub command line interface. Commands are
// a thin presentation layer; parsing and formatting happen here, everything
// else is delegated to the services.
package cli

import (
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/valutatrade/valutahub/internal/clients/coingecko"
	"github.com/valutatrade/valutahub/internal/clients/exchangerate"
	"github.com/valutatrade/valutahub/internal/common"
	"github.com/valutatrade/valutahub/internal/models"
	"github.com/valutatrade/valutahub/internal/services/ledger"
	"github.com/valutatrade/valutahub/internal/services/rates"
	"github.com/valutatrade/valutahub/internal/storage"
)

// DefaultConfigFile is looked up in the working directory on every run.
const DefaultConfigFile = "valutahub.toml"

// Commands returns every registered subcommand.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&registerCmd{},
		&loginCmd{},
		&logoutCmd{},
		&whoamiCmd{},
		&passwdCmd{},
		&rateCmd{},
		&buyCmd{},
		&sellCmd{},
		&portfolioCmd{},
		&updateCmd{},
		&currenciesCmd{},
		&versionCmd{},
	}
}

// App wires the configured services together for one CLI invocation.
type App struct {
	Config   *common.Config
	Logger   *common.Logger
	Registry *models.Registry
	Rates    *rates.Service
	Ledger   *ledger.Service
	Updater  *rates.Updater
}

// newApp loads configuration and constructs the full service graph.
func newApp() (*App, error) {
	config, err := common.LoadConfig(DefaultConfigFile)
	if err != nil {
		return nil, err
	}
	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := storage.NewFileStore(logger, config.DataPath)
	if err != nil {
		return nil, err
	}
	registry := models.DefaultRegistry()

	gecko := coingecko.NewClient(config.Clients.CoinGecko, config.Currencies,
		coingecko.WithLogger(logger))
	exchange := exchangerate.NewClient(config.Clients.ExchangeRate, config.Currencies,
		config.BaseCurrency, exchangerate.WithLogger(logger))

	updater := rates.NewUpdater(store, logger, gecko, exchange)
	rateService := rates.NewService(store, registry, updater, config.Cache.TTL(), logger)
	ledgerService := ledger.NewService(store, registry, rateService, logger)

	return &App{
		Config:   config,
		Logger:   logger,
		Registry: registry,
		Rates:    rateService,
		Ledger:   ledgerService,
		Updater:  updater,
	}, nil
}

// run builds the app and executes the named action with start/ok/error
// logging, mapping the outcome to an exit status.
func run(action string, fn func(app *App) error) subcommands.ExitStatus {
	app, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := common.LogAction(app.Logger, action, func() error { return fn(app) }); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
