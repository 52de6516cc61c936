package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tracker "github.com/MJCFL/personal-finance-tracker"
	"github.com/MJCFL/personal-finance-tracker/renderer"
	"github.com/google/subcommands"
)

const commitRetries = 3

// txCmd holds the flags for the 'tx' subcommand.
type txCmd struct {
	typ     string
	account string
	target  string
	budget  string
	amount  float64
	date    string
	notes   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "record a cash transaction" }
func (*txCmd) Usage() string {
	return `pft tx -t <type> -a <account-id> -amount <value> [-to <account-id>] [-b <budget-id>] [-d <date>] [-note <text>]

  Records a cash transaction (income, expense, deposit, withdrawal,
  dividend, payment or transfer) and applies its balance deltas.
  Payment and transfer require a -to target account.

Usage Examples:
# Record a grocery expense against the food budget.
$ pft tx -t expense -a checking-1 -amount 54.20 -b food

# Pay down a credit card from checking.
$ pft tx -t payment -a checking-1 -to visa-1 -amount 200
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", "", "Transaction type")
	f.StringVar(&c.account, "a", "", "Source account")
	f.StringVar(&c.target, "to", "", "Target account, for payment and transfer")
	f.StringVar(&c.budget, "b", "", "Budget to accrue, for expense and payment")
	f.Float64Var(&c.amount, "amount", 0, "Positive amount in the reporting currency")
	f.StringVar(&c.date, "d", tracker.Today().String(), "Date of the transaction")
	f.StringVar(&c.notes, "note", "", "Free-form note")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := tracker.ParseTransactionType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	day, err := tracker.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
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

	var lastErr error
	for range commitRetries {
		tx, err := tracker.NewCashTransaction(*user, typ, c.account, tracker.M(c.amount, cfg.Currency), day)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		tx.TargetAccountID = c.target
		tx.BudgetID = c.budget
		tx.Notes = c.notes
		if err := tx.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}

		source, err := st.GetAccount(ctx, *user, tx.AccountID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading account %q: %v\n", tx.AccountID, err)
			return subcommands.ExitFailure
		}
		accounts := []*tracker.Account{source}

		var target *tracker.Account
		if tx.TargetAccountID != "" {
			if target, err = st.GetAccount(ctx, *user, tx.TargetAccountID); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading account %q: %v\n", tx.TargetAccountID, err)
				return subcommands.ExitFailure
			}
			accounts = append(accounts, target)
		}

		if err := tracker.ApplyTransaction(tx, source, target); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}

		var budget *tracker.Budget
		if tx.BudgetID != "" {
			if budget, err = st.GetBudget(ctx, *user, tx.BudgetID); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading budget %q: %v\n", tx.BudgetID, err)
				return subcommands.ExitFailure
			}
			budget.Accrue(tx)
		}

		lastErr = st.CommitTransaction(ctx, tx, accounts, budget)
		if lastErr == nil {
			fmt.Printf("%s\n", renderer.Transaction(tx))
			return subcommands.ExitSuccess
		}
		if !errors.Is(lastErr, tracker.ErrConflict) {
			break
		}
	}
	fmt.Fprintf(os.Stderr, "Error recording transaction: %v\n", lastErr)
	return subcommands.ExitFailure
}
