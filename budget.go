package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Budget tracks category spending against a target for a period. Spent is
// a running accumulator incremented at transaction creation time, never
// recomputed from scratch.
type Budget struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Category  string    `json:"category"`
	Period    Period    `json:"period"`
	Target    Money     `json:"target"`
	Spent     Money     `json:"spent"`
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBudget creates a budget with a zero spent accumulator.
func NewBudget(userID, category string, period Period, target Money) *Budget {
	now := time.Now().UTC()
	return &Budget{
		ID:        uuid.New().String(),
		UserID:    userID,
		Category:  category,
		Period:    period,
		Target:    target,
		Spent:     M(0, target.Currency()),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the budget document for correctness.
func (b *Budget) Validate() error {
	if b.Category == "" {
		return fmt.Errorf("%w: budget category is missing", ErrValidation)
	}
	if !b.Target.IsPositive() {
		return fmt.Errorf("%w: budget target must be positive", ErrValidation)
	}
	return nil
}

// accrues reports whether a transaction type counts against budgets.
func accrues(typ TransactionType) bool {
	return typ == TxExpense || typ == TxPayment
}

// Accrue adds a transaction's absolute amount to the spent accumulator.
// Only expense and payment transactions accrue; anything else is ignored.
func (b *Budget) Accrue(tx *Transaction) {
	if !accrues(tx.Type) {
		return
	}
	b.Spent = b.Spent.Add(tx.Amount.Abs())
	b.UpdatedAt = time.Now().UTC()
}

// Release undoes an accrual when the transaction is deleted. The spent
// accumulator is floored at zero.
func (b *Budget) Release(tx *Transaction) {
	if !accrues(tx.Type) {
		return
	}
	b.Spent = b.Spent.Sub(tx.Amount.Abs())
	if b.Spent.IsNegative() {
		b.Spent = M(0, b.Spent.Currency())
	}
	b.UpdatedAt = time.Now().UTC()
}

// Utilization returns spent over target, as a ratio. A zero target yields
// zero.
func (b *Budget) Utilization() float64 {
	if b.Target.IsZero() {
		return 0
	}
	return b.Spent.AsFloat() / b.Target.AsFloat()
}
