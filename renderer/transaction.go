package renderer

import (
	"fmt"
	"strings"

	tracker "github.com/MJCFL/personal-finance-tracker"
)

// Transaction renders a transaction to a one-line string.
func Transaction(tx *tracker.Transaction) string {
	switch tx.Type {
	case tracker.TxBuy:
		return fmt.Sprintf("Bought %s of %s at %s", tx.Quantity, tx.Symbol, tx.Price)
	case tracker.TxSell:
		return fmt.Sprintf("Sold %s of %s for %s", tx.Quantity, tx.Symbol, tx.Amount)
	case tracker.TxRemove:
		return fmt.Sprintf("Removed %s of %s", tx.Quantity, tx.Symbol)
	case tracker.TxDividend:
		return fmt.Sprintf("Dividend of %s from %s", tx.Amount, tx.Symbol)
	case tracker.TxDeposit:
		return fmt.Sprintf("Deposited %s", tx.Amount)
	case tracker.TxWithdrawal:
		return fmt.Sprintf("Withdrew %s", tx.Amount)
	case tracker.TxPayment:
		return fmt.Sprintf("Paid %s towards %s", tx.Amount, tx.TargetAccountID)
	case tracker.TxIncome:
		return fmt.Sprintf("Income of %s", tx.Amount)
	case tracker.TxExpense:
		return fmt.Sprintf("Expense of %s", tx.Amount)
	case tracker.TxTransfer:
		return fmt.Sprintf("Transferred %s to %s", tx.Amount, tx.TargetAccountID)
	default:
		return string(tx.Type)
	}
}

// TransactionsMarkdown generates a markdown log of transactions, most recent first.
func TransactionsMarkdown(txs []*tracker.Transaction) string {
	r := &reporter{Builder: &strings.Builder{}}

	r.Printf("# Transactions\n\n")
	if len(txs) == 0 {
		r.Printf("No transactions recorded.\n")
		return r.String()
	}
	r.Printf("| Date | Type | Detail |\n")
	r.Printf("|:---|:---|:---|\n")
	for _, tx := range txs {
		r.Printf("| %s | %s | %s |\n", tx.Date, tx.Type, Transaction(tx))
	}
	r.Printf("\n")
	return r.String()
}
