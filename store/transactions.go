package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	tracker "github.com/MJCFL/personal-finance-tracker"
	bolt "go.etcd.io/bbolt"
)

// CommitTransaction atomically inserts a transaction record together with
// the account documents its balance effects mutated and the budget it
// accrued to. Version checks apply to every document; any conflict aborts
// the whole write.
func (s *Store) CommitTransaction(ctx context.Context, txn *tracker.Transaction, accounts []*tracker.Account, budget *tracker.Budget) error {
	if err := ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketTransactions))
		k := key(txn.UserID, txn.ID)
		if b.Get(k) != nil {
			return fmt.Errorf("%w: transaction %q already exists", tracker.ErrValidation, txn.ID)
		}
		if err := putJSON(b, k, txn); err != nil {
			return err
		}
		for _, a := range accounts {
			if err := putAccountTx(tx, a); err != nil {
				return err
			}
		}
		if budget != nil {
			if err := putBudgetTx(tx, budget); err != nil {
				return err
			}
		}
		return nil
	})
}

// DiscardTransaction atomically deletes a transaction record together
// with the account and budget documents that its reversal mutated.
func (s *Store) DiscardTransaction(ctx context.Context, userID, id string, accounts []*tracker.Account, budget *tracker.Budget) error {
	if err := ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketTransactions))
		k := key(userID, id)
		if b.Get(k) == nil {
			return fmt.Errorf("transaction %q: %w", id, tracker.ErrNotFound)
		}
		if err := b.Delete(k); err != nil {
			return err
		}
		for _, a := range accounts {
			if err := putAccountTx(tx, a); err != nil {
				return err
			}
		}
		if budget != nil {
			if err := putBudgetTx(tx, budget); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTransaction loads one transaction record for the user.
func (s *Store) GetTransaction(ctx context.Context, userID, id string) (*tracker.Transaction, error) {
	if err := ready(ctx); err != nil {
		return nil, err
	}
	var txn tracker.Transaction
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket([]byte(bucketTransactions)), key(userID, id), &txn)
	})
	if err != nil {
		return nil, fmt.Errorf("transaction %q: %w", id, err)
	}
	return &txn, nil
}

// ListTransactions loads all of the user's transaction records, most
// recent first.
func (s *Store) ListTransactions(ctx context.Context, userID string) ([]tracker.Transaction, error) {
	if err := ready(ctx); err != nil {
		return nil, err
	}
	txns := make([]tracker.Transaction, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketTransactions)).Cursor()
		p := prefix(userID)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			var txn tracker.Transaction
			if err := json.Unmarshal(v, &txn); err != nil {
				return fmt.Errorf("corrupt transaction document %q: %w", k, err)
			}
			txns = append(txns, txn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Timestamp.After(txns[j].Timestamp)
	})
	return txns, nil
}
