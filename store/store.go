// Package store persists tracker documents in a bbolt database.
//
// Every document is scoped to one user: keys are "userID/entityID", so a
// caller can never read or overwrite another user's documents. Account and
// budget writes check the document's version token and fail with
// tracker.ErrConflict on a concurrent update; Update wraps the
// read-modify-write loop with a bounded retry.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

// Bucket names.
const (
	bucketAccounts     = "accounts"
	bucketTransactions = "transactions"
	bucketBudgets      = "budgets"
)

// maxUpdateRetries bounds the read-modify-write retry loop before a
// conflict is surfaced to the caller.
const maxUpdateRetries = 3

// Store wraps the bbolt database.
type Store struct {
	db  *bolt.DB
	log zerolog.Logger
}

// Open opens (or creates) the database at path and initializes buckets.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{bucketAccounts, bucketTransactions, bucketBudgets} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info().Str("path", path).Msg("store opened")
	return &Store{db: db, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// key builds the user-scoped document key.
func key(userID, id string) []byte {
	return []byte(userID + "/" + id)
}

// prefix is the key prefix covering all of one user's documents.
func prefix(userID string) []byte {
	return []byte(userID + "/")
}

// ready reports a context error before touching the database. bbolt has no
// cancellation of its own.
func ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}
