package tracker

import (
	"fmt"
	"time"
)

// The Balance Mutator: pure computation of the signed balance delta a
// transaction applies to an account, depending on the transaction type and
// the account classification.
//
// Liability balances are positive-as-owed, so an expense charged to a
// credit card increases its balance (more owed) and a payment decreases it
// (debt paid down).

// balanceDelta returns the signed delta the transaction type applies to an
// account of the given classification. Amount is always positive.
func balanceDelta(typ TransactionType, amount Money, account AccountType) (Money, error) {
	liability := account.IsLiability()
	switch typ {
	case TxIncome, TxDeposit, TxDividend:
		if liability {
			return amount.Neg(), nil
		}
		return amount, nil
	case TxExpense, TxWithdrawal:
		if liability {
			return amount, nil
		}
		return amount.Neg(), nil
	case TxPayment, TxTransfer:
		// Source side: money always leaves an asset account.
		if liability {
			return Money{}, fmt.Errorf("%w: %s source must be an asset account", ErrValidation, typ)
		}
		return amount.Neg(), nil
	default:
		return Money{}, fmt.Errorf("%w: no balance rule for transaction type %q", ErrValidation, typ)
	}
}

// targetDelta returns the signed delta applied to the target account of a
// payment or transfer.
func targetDelta(typ TransactionType, amount Money, account AccountType) (Money, error) {
	switch typ {
	case TxPayment:
		if !account.IsLiability() {
			return Money{}, fmt.Errorf("%w: payment target must be a liability account", ErrValidation)
		}
		return amount.Neg(), nil // pays down debt
	case TxTransfer:
		if account.IsLiability() {
			return amount.Neg(), nil
		}
		return amount, nil
	default:
		return Money{}, fmt.Errorf("%w: transaction type %q has no target account", ErrValidation, typ)
	}
}

// ApplyTransaction applies a cash transaction's balance effects to its
// source account and, for payment and transfer, to the target account.
// Accounts are mutated in memory; the caller persists them. No account is
// mutated when an error is returned.
func ApplyTransaction(tx *Transaction, source, target *Account) error {
	return mutateBalances(tx, source, target, false)
}

// ReverseTransaction undoes a cash transaction's balance effects, used
// when a transaction record is deleted.
func ReverseTransaction(tx *Transaction, source, target *Account) error {
	return mutateBalances(tx, source, target, true)
}

func mutateBalances(tx *Transaction, source, target *Account, reverse bool) error {
	if !tx.Type.isCash() {
		return fmt.Errorf("%w: transaction type %q does not move cash", ErrValidation, tx.Type)
	}
	if source == nil {
		return fmt.Errorf("%w: source account", ErrNotFound)
	}

	delta, err := balanceDelta(tx.Type, tx.Amount, source.Type)
	if err != nil {
		return err
	}

	var tdelta Money
	if tx.Type == TxPayment || tx.Type == TxTransfer {
		switch {
		case target != nil:
			tdelta, err = targetDelta(tx.Type, tx.Amount, target.Type)
			if err != nil {
				return err
			}
		case !reverse:
			return fmt.Errorf("%w: target account", ErrNotFound)
		}
		// A reversal with a since-deleted target account undoes the
		// source delta only.
	}

	if reverse {
		delta = delta.Neg()
		tdelta = tdelta.Neg()
	}

	now := time.Now().UTC()
	source.Balance = source.Balance.Add(delta)
	source.UpdatedAt = now
	if target != nil && !tdelta.IsZero() {
		target.Balance = target.Balance.Add(tdelta)
		target.UpdatedAt = now
	}
	return nil
}
