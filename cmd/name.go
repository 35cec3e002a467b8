package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/twfolio"
	"github.com/google/subcommands"
)

type nameCmd struct {
	market string
}

func (*nameCmd) Name() string     { return "name" }
func (*nameCmd) Synopsis() string { return "look up the name of a security" }
func (*nameCmd) Usage() string {
	return `twfolio name [-m TWSE|TWO] <code>

  Prints the name of a security from the directory file.
`
}

func (c *nameCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.market, "m", "TWSE", "Market: TWSE or TWO")
}

func (c *nameCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	market, err := twfolio.ParseMarket(c.market)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		name, _, err := a.service.StockName(ctx, f.Arg(0), market)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(name)
		return subcommands.ExitSuccess
	})
}
