package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/MJCFL/personal-finance-tracker/renderer"
	"github.com/google/subcommands"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	account string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the positions held in an account" }
func (*holdingCmd) Usage() string {
	return `pft holding -a <account-id>

  Displays the open positions of an investment account with quantity,
  cost basis and market value.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to report on")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -a <account-id> is required")
		return subcommands.ExitUsageError
	}
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

	account, err := st.GetAccount(ctx, *user, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading account %q: %v\n", c.account, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HoldingsMarkdown(account))
	return subcommands.ExitSuccess
}
