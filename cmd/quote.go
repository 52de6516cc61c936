package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/MJCFL/personal-finance-tracker/marketdata"
	"github.com/google/subcommands"
)

// quoteCmd holds the flags for the 'quote' subcommand.
type quoteCmd struct {
	search bool
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "fetch current prices for symbols" }
func (*quoteCmd) Usage() string {
	return `pft quote [-search] <symbol>...

  Fetches the current price for each symbol. With -search, treats the
  arguments as search queries and lists matching symbols instead.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.search, "search", false, "Search for symbols instead of quoting them")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	log := newLogger(cfg)
	prices := marketdata.New(cfg.PriceAPIURL, cfg.Currency, log,
		marketdata.WithTTL(cfg.QuoteTTL, cfg.SearchTTL))

	for _, arg := range f.Args() {
		if c.search {
			results, err := prices.Search(ctx, arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error searching %q: %v\n", arg, err)
				return subcommands.ExitFailure
			}
			for _, r := range results {
				fmt.Printf("%s\t%s\t%s\n", r.Symbol, r.Name, r.Currency)
			}
			continue
		}
		q, err := prices.Quote(ctx, arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error quoting %q: %v\n", arg, err)
			return subcommands.ExitFailure
		}
		if q.Synthetic {
			fmt.Printf("%s\t%s\t(estimate)\n", q.Symbol, q.Price)
		} else {
			fmt.Printf("%s\t%s\n", q.Symbol, q.Price)
		}
	}
	return subcommands.ExitSuccess
}
