package renderer

import (
	"strings"
	"testing"
	"time"

	tracker "github.com/MJCFL/personal-finance-tracker"
)

func TestSummaryMarkdown(t *testing.T) {
	checking := tracker.NewAccount("u1", "checking", tracker.Checking, "USD")
	checking.Balance = tracker.M(1000, "USD")
	card := tracker.NewAccount("u1", "visa", tracker.CreditCard, "USD")
	card.Balance = tracker.M(300, "USD")

	budget := tracker.NewBudget("u1", "food", tracker.Monthly, tracker.M(400, "USD"))
	budget.Spent = tracker.M(100, "USD")

	s := tracker.Summarize([]tracker.Account{*checking, *card}, []tracker.Budget{*budget}, "USD")
	md := SummaryMarkdown(&s)

	for _, want := range []string{"# Net Worth", "checking", "visa", "food", "25%"} {
		if !strings.Contains(md, want) {
			t.Errorf("SummaryMarkdown() missing %q:\n%s", want, md)
		}
	}
}

func TestTransactionLines(t *testing.T) {
	day := tracker.NewDate(2025, time.March, 1)
	buy := tracker.NewAccount("u1", "brokerage", tracker.Investment, "USD")
	tx, err := buy.Buy("AAPL", "", tracker.Q(10), tracker.M(150, "USD"), day, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := Transaction(tx); !strings.Contains(got, "Bought 10 of AAPL") {
		t.Errorf("Transaction() = %q", got)
	}

	cash, err := tracker.NewCashTransaction("u1", tracker.TxExpense, "acc", tracker.M(50, "USD"), day)
	if err != nil {
		t.Fatal(err)
	}
	if got := Transaction(cash); !strings.Contains(got, "Expense of") {
		t.Errorf("Transaction() = %q", got)
	}
}

func TestTransactionsMarkdownEmpty(t *testing.T) {
	md := TransactionsMarkdown(nil)
	if !strings.Contains(md, "No transactions") {
		t.Errorf("TransactionsMarkdown(nil) = %q", md)
	}
}
