package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType identifies what a transaction record represents.
type TransactionType string

const (
	TxBuy        TransactionType = "buy"
	TxSell       TransactionType = "sell"
	TxRemove     TransactionType = "remove"
	TxDividend   TransactionType = "dividend"
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxPayment    TransactionType = "payment"
	TxIncome     TransactionType = "income"
	TxExpense    TransactionType = "expense"
	TxTransfer   TransactionType = "transfer"
)

// ParseTransactionType parses a string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TxBuy, TxSell, TxRemove, TxDividend, TxDeposit, TxWithdrawal,
		TxPayment, TxIncome, TxExpense, TxTransfer:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown transaction type %q", ErrValidation, s)
	}
}

// isCash reports whether the type moves cash through the Balance Mutator.
// Buy, sell and remove mutate holdings instead.
func (t TransactionType) isCash() bool {
	switch t {
	case TxIncome, TxExpense, TxPayment, TxDeposit, TxWithdrawal, TxTransfer, TxDividend:
		return true
	}
	return false
}

// Transaction is an append-only record of a financial event. Records are
// created once and never mutated; deleting one reverses its balance and
// budget side effects.
type Transaction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Type            TransactionType `json:"type"`
	AccountID       string          `json:"accountId"`
	TargetAccountID string          `json:"targetAccountId,omitempty"`
	Symbol          string          `json:"symbol,omitempty"`
	Quantity        Quantity        `json:"quantity,omitempty"`
	Price           Money           `json:"price,omitempty"`
	Amount          Money           `json:"amount"`
	BudgetID        string          `json:"budgetId,omitempty"`
	Date            Date            `json:"date"`
	Timestamp       time.Time       `json:"timestamp"`
	Notes           string          `json:"notes,omitempty"`
}

func newTransaction(userID string, typ TransactionType, accountID string) *Transaction {
	return &Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		AccountID: accountID,
		Date:      Today(),
		Timestamp: time.Now().UTC(),
	}
}

// NewCashTransaction builds a cash transaction record. Amount must be
// positive; the sign of the balance effect is derived from the type and
// the account classification by the Balance Mutator.
func NewCashTransaction(userID string, typ TransactionType, accountID string, amount Money, day Date) (*Transaction, error) {
	if !typ.isCash() {
		return nil, fmt.Errorf("%w: %q is not a cash transaction type", ErrValidation, typ)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if accountID == "" {
		return nil, fmt.Errorf("%w: account is missing", ErrValidation)
	}
	tx := newTransaction(userID, typ, accountID)
	tx.Amount = amount
	if !day.IsZero() {
		tx.Date = day
	}
	return tx, nil
}

// Validate checks a transaction record for correctness.
func (t *Transaction) Validate() error {
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if t.AccountID == "" {
		return fmt.Errorf("%w: account is missing", ErrValidation)
	}
	switch t.Type {
	case TxBuy, TxSell, TxRemove:
		if t.Symbol == "" {
			return fmt.Errorf("%w: symbol is missing", ErrValidation)
		}
		if !t.Quantity.IsPositive() {
			return fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
	case TxPayment, TxTransfer:
		if t.TargetAccountID == "" {
			return fmt.Errorf("%w: target account is missing", ErrValidation)
		}
		if t.TargetAccountID == t.AccountID {
			return fmt.Errorf("%w: target account must differ from source", ErrValidation)
		}
		fallthrough
	default:
		if !t.Amount.IsPositive() {
			return fmt.Errorf("%w: amount must be positive", ErrValidation)
		}
	}
	return nil
}
