package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/twfolio/date"
	"github.com/google/subcommands"
)

// --- Import Command ---

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append transactions from a CSV file" }
func (*importCmd) Usage() string {
	return `twfolio import <file.csv>

  Appends the transactions of a CSV file with the columns
  Date,Stock_Code,Stock_Name,Type,Quantity,Price,Fee,Tax (as written by
  'export'). Malformed rows are reported and skipped.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	r, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer r.Close()

	return withApp(func(a *app) subcommands.ExitStatus {
		n, err := a.service.Import(ctx, r)
		fmt.Printf("Imported %d transactions\n", n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}

// --- Export Command ---

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the ledger as a CSV file" }
func (*exportCmd) Usage() string {
	return `twfolio export [-o <file.csv>]

  Writes every transaction as CSV, UTF-8 with a byte order mark. The default
  file is exported_transactions_YYYYMMDD.csv, use '-o -' for stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	output := c.output
	if output == "" {
		output = fmt.Sprintf("exported_transactions_%s.csv", date.Today().Compact())
	}
	return withApp(func(a *app) subcommands.ExitStatus {
		var w io.Writer = os.Stdout
		if output != "-" {
			file, err := os.Create(output)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			defer file.Close()
			w = file
		}
		if err := a.service.Export(ctx, w); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if output != "-" {
			fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
		}
		return subcommands.ExitSuccess
	})
}
