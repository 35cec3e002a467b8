package cmd

import (
	"context"
	"flag"

	"github.com/etnz/twfolio/date"
	"github.com/etnz/twfolio/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	refresh bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display holdings, market value and profits" }
func (*summaryCmd) Usage() string {
	return `twfolio summary [-refresh=false]

  Replays the ledger and values every security still held. Prices come from
  the price sheet, then from live quotes. Securities nobody can price are
  worth 0.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", true, "Load the price sheet before valuing. When false only live quotes are used.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) subcommands.ExitStatus {
		if c.refresh {
			a.loadSnapshot(ctx)
		}
		sum, _ := a.service.Summary(ctx)
		printMarkdown(renderer.Summary(date.Today(), sum))
		return subcommands.ExitSuccess
	})
}
