package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	tracker "github.com/MJCFL/personal-finance-tracker"
	bolt "go.etcd.io/bbolt"
)

// CreateBudget inserts a new budget document.
func (s *Store) CreateBudget(ctx context.Context, b *tracker.Budget) error {
	if err := ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketBudgets))
		k := key(b.UserID, b.ID)
		if bucket.Get(k) != nil {
			return fmt.Errorf("%w: budget %q already exists", tracker.ErrValidation, b.ID)
		}
		b.Version = 1
		return putJSON(bucket, k, b)
	})
}

// GetBudget loads one budget document for the user.
func (s *Store) GetBudget(ctx context.Context, userID, id string) (*tracker.Budget, error) {
	if err := ready(ctx); err != nil {
		return nil, err
	}
	var b tracker.Budget
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket([]byte(bucketBudgets)), key(userID, id), &b)
	})
	if err != nil {
		return nil, fmt.Errorf("budget %q: %w", id, err)
	}
	return &b, nil
}

// ListBudgets loads all of the user's budget documents.
func (s *Store) ListBudgets(ctx context.Context, userID string) ([]tracker.Budget, error) {
	if err := ready(ctx); err != nil {
		return nil, err
	}
	budgets := make([]tracker.Budget, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketBudgets)).Cursor()
		p := prefix(userID)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			var b tracker.Budget
			if err := json.Unmarshal(v, &b); err != nil {
				return fmt.Errorf("corrupt budget document %q: %w", k, err)
			}
			budgets = append(budgets, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

// PutBudget writes a budget document back, version-checked like accounts.
func (s *Store) PutBudget(ctx context.Context, b *tracker.Budget) error {
	if err := ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return putBudgetTx(tx, b)
	})
}

func putBudgetTx(tx *bolt.Tx, b *tracker.Budget) error {
	bucket := tx.Bucket([]byte(bucketBudgets))
	k := key(b.UserID, b.ID)
	if err := checkVersion(bucket, k, b.Version); err != nil {
		return fmt.Errorf("budget %q: %w", b.ID, err)
	}
	b.Version++
	return putJSON(bucket, k, b)
}

// DeleteBudget removes one budget document. Transactions that accrued to
// it keep their record; only the budget disappears.
func (s *Store) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketBudgets))
		k := key(userID, id)
		if bucket.Get(k) == nil {
			return fmt.Errorf("budget %q: %w", id, tracker.ErrNotFound)
		}
		return bucket.Delete(k)
	})
}
