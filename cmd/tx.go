package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/twfolio/date"
	"github.com/etnz/twfolio/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	start string
	end   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the ledger" }
func (*txCmd) Usage() string {
	return `twfolio tx [-s <start_date>] [-d <end_date>]

  Lists transactions in ledger order, with the index to use with 'rm'.
  Dates are inclusive, either bound may be omitted.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.start, "s", "", "The first date to list.")
	f.StringVar(&p.end, "d", "", "The last date to list.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var err error
	var from, to date.Date
	if p.start != "" {
		if from, err = date.Parse(p.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if p.end != "" {
		if to, err = date.Parse(p.end); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	period := date.NewRange(from, to)

	return withApp(func(a *app) subcommands.ExitStatus {
		var txs []renderer.IndexedTransaction
		for i, tx := range a.service.Transactions(ctx) {
			if period.Contains(tx.Date) {
				txs = append(txs, renderer.IndexedTransaction{Index: i, Transaction: tx})
			}
		}
		printMarkdown(renderer.Transactions(txs))
		return subcommands.ExitSuccess
	})
}
