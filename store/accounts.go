package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	tracker "github.com/MJCFL/personal-finance-tracker"
	bolt "go.etcd.io/bbolt"
)

// CreateAccount inserts a new account document. The account id must not
// already exist for this user.
func (s *Store) CreateAccount(ctx context.Context, a *tracker.Account) error {
	if err := ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAccounts))
		k := key(a.UserID, a.ID)
		if b.Get(k) != nil {
			return fmt.Errorf("%w: account %q already exists", tracker.ErrValidation, a.ID)
		}
		a.Version = 1
		return putJSON(b, k, a)
	})
}

// GetAccount loads one account document for the user.
func (s *Store) GetAccount(ctx context.Context, userID, id string) (*tracker.Account, error) {
	if err := ready(ctx); err != nil {
		return nil, err
	}
	var a tracker.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket([]byte(bucketAccounts)), key(userID, id), &a)
	})
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", id, err)
	}
	return &a, nil
}

// ListAccounts loads all of the user's account documents.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]tracker.Account, error) {
	if err := ready(ctx); err != nil {
		return nil, err
	}
	accounts := make([]tracker.Account, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketAccounts)).Cursor()
		p := prefix(userID)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			var a tracker.Account
			if err := json.Unmarshal(v, &a); err != nil {
				return fmt.Errorf("corrupt account document %q: %w", k, err)
			}
			accounts = append(accounts, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// PutAccount writes an account document back. The stored version must
// match the caller's copy or the write fails with tracker.ErrConflict;
// the version is bumped on success.
func (s *Store) PutAccount(ctx context.Context, a *tracker.Account) error {
	if err := ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return putAccountTx(tx, a)
	})
}

func putAccountTx(tx *bolt.Tx, a *tracker.Account) error {
	b := tx.Bucket([]byte(bucketAccounts))
	k := key(a.UserID, a.ID)
	if err := checkVersion(b, k, a.Version); err != nil {
		return fmt.Errorf("account %q: %w", a.ID, err)
	}
	a.Version++
	return putJSON(b, k, a)
}

// DeleteAccount removes one account document.
func (s *Store) DeleteAccount(ctx context.Context, userID, id string) error {
	if err := ready(ctx); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAccounts))
		k := key(userID, id)
		if b.Get(k) == nil {
			return fmt.Errorf("account %q: %w", id, tracker.ErrNotFound)
		}
		return b.Delete(k)
	})
}

// UpdateAccount runs a read-modify-write on one account, retrying a
// bounded number of times on version conflict before surfacing
// tracker.ErrConflict.
func (s *Store) UpdateAccount(ctx context.Context, userID, id string, mutate func(*tracker.Account) error) (*tracker.Account, error) {
	var lastErr error
	for range maxUpdateRetries {
		a, err := s.GetAccount(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if err := mutate(a); err != nil {
			return nil, err
		}
		lastErr = s.PutAccount(ctx, a)
		if lastErr == nil {
			return a, nil
		}
		if !errors.Is(lastErr, tracker.ErrConflict) {
			return nil, lastErr
		}
		s.log.Debug().Str("account", id).Msg("version conflict, retrying")
	}
	return nil, lastErr
}

// getJSON loads and unmarshals one document, mapping a missing key to
// tracker.ErrNotFound.
func getJSON(b *bolt.Bucket, k []byte, v any) error {
	data := b.Get(k)
	if data == nil {
		return tracker.ErrNotFound
	}
	return json.Unmarshal(data, v)
}

func putJSON(b *bolt.Bucket, k []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return b.Put(k, data)
}

// checkVersion compares the stored document's version token with the
// caller's copy.
func checkVersion(b *bolt.Bucket, k []byte, version uint64) error {
	data := b.Get(k)
	if data == nil {
		return tracker.ErrNotFound
	}
	var doc struct {
		Version uint64 `json:"version"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("corrupt document %q: %w", k, err)
	}
	if doc.Version != version {
		return fmt.Errorf("%w: stored version %d, got %d", tracker.ErrConflict, doc.Version, version)
	}
	return nil
}
