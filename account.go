package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AccountType classifies an account. Asset accounts hold money the user
// owns, liability accounts represent money owed.
type AccountType string

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Investment AccountType = "investment"
	CreditCard AccountType = "credit_card"
	Loan       AccountType = "loan"
	Mortgage   AccountType = "mortgage"
)

// IsLiability reports whether the account type represents money owed.
// Liability balances are stored positive-as-owed: a credit card with 200
// owed has balance 200.
func (t AccountType) IsLiability() bool {
	switch t {
	case CreditCard, Loan, Mortgage:
		return true
	}
	return false
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case Checking, Savings, Investment, CreditCard, Loan, Mortgage:
		return AccountType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", ErrValidation, s)
	}
}

// Bucket is a named sub-balance inside an account, with an optional
// savings goal.
type Bucket struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
	Goal   Money  `json:"goal,omitempty"`
}

// Account is a user-owned account document. Version is the optimistic
// concurrency token checked by the store on write.
type Account struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	Name         string      `json:"name"`
	Type         AccountType `json:"type"`
	Balance      Money       `json:"balance"`
	InterestRate float64     `json:"interestRate,omitempty"`
	Buckets      []Bucket    `json:"buckets,omitempty"`
	Holdings     []Holding   `json:"holdings,omitempty"`
	Version      uint64      `json:"version"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// NewAccount creates an account with a zero balance in the given currency.
func NewAccount(userID, name string, typ AccountType, currency string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Type:      typ,
		Balance:   M(0, currency),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the account document for correctness.
func (a *Account) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: account name is missing", ErrValidation)
	}
	if _, err := ParseAccountType(string(a.Type)); err != nil {
		return err
	}
	for _, b := range a.Buckets {
		if b.Name == "" {
			return fmt.Errorf("%w: bucket name is missing", ErrValidation)
		}
	}
	return nil
}

// Holding returns the holding for the given symbol, or nil if the account
// does not hold it.
func (a *Account) Holding(symbol string) *Holding {
	for i := range a.Holdings {
		if a.Holdings[i].Symbol == symbol {
			return &a.Holdings[i]
		}
	}
	return nil
}

// Buy records the purchase of a lot, creating the holding on first buy.
// It returns the buy transaction record; the caller persists both.
func (a *Account) Buy(symbol, name string, quantity Quantity, price Money, day Date, notes string) (*Transaction, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is missing", ErrValidation)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if day.IsZero() {
		day = Today()
	}

	h := a.Holding(symbol)
	if h == nil {
		a.Holdings = append(a.Holdings, Holding{Symbol: symbol, Name: name})
		h = &a.Holdings[len(a.Holdings)-1]
	}
	h.Lots = append(h.Lots, Lot{Quantity: quantity, Price: price, Date: day, Notes: notes})
	h.LastPrice = price
	h.UpdatedAt = time.Now().UTC()
	a.UpdatedAt = h.UpdatedAt

	tx := newTransaction(a.UserID, TxBuy, a.ID)
	tx.Symbol = symbol
	tx.Quantity = quantity
	tx.Price = price
	tx.Amount = price.Mul(quantity)
	tx.Date = day
	tx.Notes = notes
	return tx, nil
}

// Sell disposes of a quantity of a holding oldest lot first and records a
// sell transaction at the caller-supplied price. The proceeds amount is
// quantity times price; realized gain or loss is left to the analytics
// layer.
func (a *Account) Sell(symbol string, quantity Quantity, price Money, day Date, notes string) (*Transaction, error) {
	return a.dispose(TxSell, symbol, quantity, price, day, notes)
}

// Remove disposes of a quantity of a holding without proceeds, for
// transfers out or corrections.
func (a *Account) Remove(symbol string, quantity Quantity, day Date, notes string) (*Transaction, error) {
	return a.dispose(TxRemove, symbol, quantity, Money{}, day, notes)
}

func (a *Account) dispose(typ TransactionType, symbol string, quantity Quantity, price Money, day Date, notes string) (*Transaction, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	h := a.Holding(symbol)
	if h == nil {
		return nil, fmt.Errorf("%w: no holding %q in account %q", ErrNotFound, symbol, a.Name)
	}
	if day.IsZero() {
		day = Today()
	}

	remaining, _, err := disposeLots(h.Lots, quantity)
	if err != nil {
		return nil, err
	}
	h.Lots = remaining
	h.UpdatedAt = time.Now().UTC()
	a.UpdatedAt = h.UpdatedAt
	if len(h.Lots) == 0 {
		a.removeHolding(symbol)
	}

	tx := newTransaction(a.UserID, typ, a.ID)
	tx.Symbol = symbol
	tx.Quantity = quantity
	tx.Date = day
	tx.Notes = notes
	if typ == TxSell {
		tx.Price = price
		tx.Amount = price.Mul(quantity)
	}
	return tx, nil
}

func (a *Account) removeHolding(symbol string) {
	for i := range a.Holdings {
		if a.Holdings[i].Symbol == symbol {
			a.Holdings = append(a.Holdings[:i], a.Holdings[i+1:]...)
			return
		}
	}
}

// HoldingsValue returns the market value of all holdings at their last
// known prices.
func (a *Account) HoldingsValue() Money {
	var total Money
	for i := range a.Holdings {
		total = total.Add(a.Holdings[i].MarketValue())
	}
	return total
}
