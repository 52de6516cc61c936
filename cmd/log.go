package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	tracker "github.com/MJCFL/personal-finance-tracker"
	"github.com/MJCFL/personal-finance-tracker/renderer"
	"github.com/google/subcommands"
)

// logCmd holds the flags for the 'log' subcommand.
type logCmd struct {
	limit int
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "display the transaction log, most recent first" }
func (*logCmd) Usage() string {
	return `pft log [-n <count>]

  Displays the recorded transactions, most recent first.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 0, "Maximum number of transactions to show, 0 for all")
}

func (c *logCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	log := newLogger(cfg)

	st, err := openStore(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database %q: %v\n", cfg.DBPath, err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	txs, err := st.ListTransactions(ctx, *user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.limit > 0 && len(txs) > c.limit {
		txs = txs[:c.limit]
	}

	refs := make([]*tracker.Transaction, len(txs))
	for i := range txs {
		refs[i] = &txs[i]
	}
	printMarkdown(renderer.TransactionsMarkdown(refs))
	return subcommands.ExitSuccess
}
