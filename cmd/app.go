// Package cmd implements the CLI application to manage a Taiwan equity
// portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/twfolio"
	"github.com/etnz/twfolio/config"
	"github.com/etnz/twfolio/logger"
	"github.com/etnz/twfolio/names"
	"github.com/etnz/twfolio/pricesheet"
	"github.com/etnz/twfolio/store"
	"github.com/etnz/twfolio/yahoo"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "reports")
	c.Register(&txCmd{}, "reports")

	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")
	c.Register(&exportCmd{}, "transactions")

	c.Register(&nameCmd{}, "securities")

	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", "twfolio.toml", "Path to the optional TOML configuration file")

// app holds the components wired from the configuration.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	ledger   *store.Cached
	closer   io.Closer
	snapshot *twfolio.PriceSnapshot
	dir      *twfolio.StockDirectory
	resolver *twfolio.PriceResolver
	service  *twfolio.Service
}

// openApp loads the configuration and wires the application.
func openApp() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
	logger.SetGlobalLogger(log)

	backend, closer, err := store.Open(cfg.Ledger.Backend, cfg.Ledger.Path)
	if err != nil {
		return nil, err
	}

	var sheet twfolio.SnapshotSource
	if cfg.Prices.SheetURL != "" || cfg.Prices.SheetPath != "" {
		sheet = pricesheet.New(cfg.Prices.SheetURL, cfg.Prices.SheetPath, log)
	}
	var live twfolio.QuoteProvider
	if !cfg.Quotes.Disable {
		live = yahoo.New(cfg.Quotes.BaseURL, cfg.Quotes.GetTimeout(), log)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		ledger:   store.NewCached(backend, cfg.Ledger.GetTTL()),
		closer:   closer,
		snapshot: twfolio.NewPriceSnapshot(sheet),
		dir:      twfolio.NewStockDirectory(names.NewFile(cfg.Names.Path, log), log),
	}
	a.resolver = twfolio.NewPriceResolver(twfolio.NewPriceCache(cfg.Prices.GetTTL()), a.snapshot, live, a.dir, log)
	a.resolver.SetTimeout(cfg.Quotes.GetTimeout())
	a.service = twfolio.NewService(a.ledger, a.resolver, a.dir, log)
	return a, nil
}

// Close releases the ledger.
func (a *app) Close() error { return a.closer.Close() }

// loadSnapshot reads the price sheet, if any. Failures only degrade prices.
func (a *app) loadSnapshot(ctx context.Context) {
	if err := a.snapshot.Refresh(ctx); err != nil {
		a.log.Warn().Err(err).Msg("price sheet unavailable, using live quotes")
	}
}

// withApp runs f over the wired application.
func withApp(f func(a *app) subcommands.ExitStatus) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	return f(a)
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
