package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/twfolio"
	"github.com/google/subcommands"
)

// entryFlags are the flags shared by buy and sell.
type entryFlags struct {
	date     string
	code     string
	name     string
	market   string
	quantity string
	price    string
}

func (e *entryFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&e.date, "d", "", "Transaction date (YYYY-MM-DD), today by default")
	f.StringVar(&e.code, "c", "", "Security code without market suffix, e.g. 2330")
	f.StringVar(&e.name, "n", "", "Security name, looked up in the directory if missing")
	f.StringVar(&e.market, "m", "TWSE", "Market: TWSE or TWO")
	f.StringVar(&e.quantity, "q", "", "Number of shares, a multiple of 1000")
	f.StringVar(&e.price, "p", "", "Price per share")
}

// record creates and appends the transaction described by the flags.
func (e *entryFlags) record(ctx context.Context, side twfolio.Side) subcommands.ExitStatus {
	return withApp(func(a *app) subcommands.ExitStatus {
		tx, err := twfolio.ParseEntry(e.date, e.code, a.entryName(ctx, e.name, e.code, e.market), e.market, side.String(), e.quantity, e.price)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := a.service.Add(ctx, tx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%s %s %s %s @ %s, fee %s, tax %s\n", tx.Date, tx.Side, tx.Quantity, tx.Code, tx.Price, tx.Fee, tx.Tax)
		return subcommands.ExitSuccess
	})
}

// entryName returns name, or the directory name of code when name is empty.
// An empty result lets the entry fall back to twfolio.DefaultName.
func (a *app) entryName(ctx context.Context, name, code, market string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	m, err := twfolio.ParseMarket(market)
	if err != nil {
		return ""
	}
	name, _, err = a.service.StockName(ctx, code, m)
	if err != nil {
		a.log.Debug().Err(err).Str("code", code).Msg("no directory name, using the default name")
		return ""
	}
	return name
}

// --- Buy Command ---

type buyCmd struct{ entryFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of shares" }
func (*buyCmd) Usage() string {
	return `twfolio buy -c <code> [-m TWSE|TWO] -q <quantity> -p <price> [-d <date>] [-n <name>]

  Records a purchase. The brokerage fee is computed from the trade amount.
`
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(ctx, twfolio.Buy)
}

// --- Sell Command ---

type sellCmd struct{ entryFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of shares" }
func (*sellCmd) Usage() string {
	return `twfolio sell -c <code> [-m TWSE|TWO] -q <quantity> -p <price> [-d <date>] [-n <name>]

  Records a sale. The brokerage fee and the transaction tax are computed
  from the trade amount.
`
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(ctx, twfolio.Sell)
}

// --- Remove Command ---

type rmCmd struct {
	index int
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a transaction from the ledger" }
func (*rmCmd) Usage() string {
	return `twfolio rm -i <index>

  Deletes the transaction at index, as listed by 'tx'.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.index, "i", -1, "Index of the transaction to delete")
}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.index < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		if err := a.service.Delete(ctx, c.index); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Deleted transaction %d\n", c.index)
		return subcommands.ExitSuccess
	})
}
