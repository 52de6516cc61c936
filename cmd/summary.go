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

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the net-worth summary" }
func (*summaryCmd) Usage() string {
	return `pft summary

  Displays assets, liabilities, net worth, per-account balances and
  budget utilization.
`
}

func (*summaryCmd) SetFlags(_ *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	md, status := summaryMarkdown(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// summaryMarkdown loads the user's accounts and budgets and renders the
// net-worth report. Shared with the assist command.
func summaryMarkdown(ctx context.Context) (string, subcommands.ExitStatus) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return "", subcommands.ExitFailure
	}
	log := newLogger(cfg)

	st, err := openStore(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database %q: %v\n", cfg.DBPath, err)
		return "", subcommands.ExitFailure
	}
	defer st.Close()

	accounts, err := st.ListAccounts(ctx, *user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing accounts: %v\n", err)
		return "", subcommands.ExitFailure
	}
	budgets, err := st.ListBudgets(ctx, *user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing budgets: %v\n", err)
		return "", subcommands.ExitFailure
	}

	s := tracker.Summarize(accounts, budgets, cfg.Currency)
	return renderer.SummaryMarkdown(&s), subcommands.ExitSuccess
}
