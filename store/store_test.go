package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tracker "github.com/MJCFL/personal-finance-tracker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tracker.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := tracker.NewAccount("u1", "checking", tracker.Checking, "USD")
	require.NoError(t, s.CreateAccount(ctx, a))
	assert.Equal(t, uint64(1), a.Version)

	// Duplicate ids are rejected.
	dup := *a
	err := s.CreateAccount(ctx, &dup)
	assert.ErrorIs(t, err, tracker.ErrValidation)

	got, err := s.GetAccount(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "checking", got.Name)

	got.Name = "main checking"
	require.NoError(t, s.PutAccount(ctx, got))

	got, err = s.GetAccount(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "main checking", got.Name)
	assert.Equal(t, uint64(2), got.Version)

	require.NoError(t, s.DeleteAccount(ctx, "u1", a.ID))
	_, err = s.GetAccount(ctx, "u1", a.ID)
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestAccountVersionConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := tracker.NewAccount("u1", "checking", tracker.Checking, "USD")
	require.NoError(t, s.CreateAccount(ctx, a))

	stale, err := s.GetAccount(ctx, "u1", a.ID)
	require.NoError(t, err)
	fresh, err := s.GetAccount(ctx, "u1", a.ID)
	require.NoError(t, err)

	fresh.Name = "renamed"
	require.NoError(t, s.PutAccount(ctx, fresh))

	stale.Name = "stale rename"
	err = s.PutAccount(ctx, stale)
	assert.ErrorIs(t, err, tracker.ErrConflict)
}

func TestUpdateAccountRetriesPastConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := tracker.NewAccount("u1", "checking", tracker.Checking, "USD")
	require.NoError(t, s.CreateAccount(ctx, a))

	calls := 0
	updated, err := s.UpdateAccount(ctx, "u1", a.ID, func(acc *tracker.Account) error {
		calls++
		if calls == 1 {
			// Simulate a concurrent writer bumping the version
			// between our read and our write.
			other, err := s.GetAccount(ctx, "u1", a.ID)
			require.NoError(t, err)
			other.Name = "concurrent"
			require.NoError(t, s.PutAccount(ctx, other))
		}
		acc.Name = "mutated"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "mutated", updated.Name)
	assert.Equal(t, 2, calls)
}

func TestUserScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mine := tracker.NewAccount("u1", "checking", tracker.Checking, "USD")
	theirs := tracker.NewAccount("u2", "checking", tracker.Checking, "USD")
	require.NoError(t, s.CreateAccount(ctx, mine))
	require.NoError(t, s.CreateAccount(ctx, theirs))

	_, err := s.GetAccount(ctx, "u1", theirs.ID)
	assert.ErrorIs(t, err, tracker.ErrNotFound)

	list, err := s.ListAccounts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
}

func TestBudgetLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := tracker.NewBudget("u1", "food", tracker.Monthly, tracker.M(400, "USD"))
	require.NoError(t, s.CreateBudget(ctx, b))

	got, err := s.GetBudget(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, "food", got.Category)

	got.Spent = tracker.M(120, "USD")
	require.NoError(t, s.PutBudget(ctx, got))

	list, err := s.ListBudgets(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Spent.Equal(tracker.M(120, "USD")))

	require.NoError(t, s.DeleteBudget(ctx, "u1", b.ID))
	_, err = s.GetBudget(ctx, "u1", b.ID)
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestCommitTransactionPersistsAllDocuments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := tracker.NewAccount("u1", "checking", tracker.Checking, "USD")
	require.NoError(t, s.CreateAccount(ctx, a))
	b := tracker.NewBudget("u1", "food", tracker.Monthly, tracker.M(400, "USD"))
	require.NoError(t, s.CreateBudget(ctx, b))

	tx, err := tracker.NewCashTransaction("u1", tracker.TxExpense, a.ID,
		tracker.M(50, "USD"), tracker.NewDate(2025, time.March, 1))
	require.NoError(t, err)
	tx.BudgetID = b.ID

	require.NoError(t, tracker.ApplyTransaction(tx, a, nil))
	b.Accrue(tx)

	require.NoError(t, s.CommitTransaction(ctx, tx, []*tracker.Account{a}, b))

	gotA, err := s.GetAccount(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.True(t, gotA.Balance.Equal(tracker.M(-50, "USD")))

	gotB, err := s.GetBudget(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.True(t, gotB.Spent.Equal(tracker.M(50, "USD")))

	gotTx, err := s.GetTransaction(ctx, "u1", tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tracker.TxExpense, gotTx.Type)
}

func TestCommitTransactionConflictAbortsWholeWrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := tracker.NewAccount("u1", "checking", tracker.Checking, "USD")
	require.NoError(t, s.CreateAccount(ctx, a))

	stale, err := s.GetAccount(ctx, "u1", a.ID)
	require.NoError(t, err)

	// Concurrent write bumps the account version.
	fresh, err := s.GetAccount(ctx, "u1", a.ID)
	require.NoError(t, err)
	fresh.Name = "renamed"
	require.NoError(t, s.PutAccount(ctx, fresh))

	tx, err := tracker.NewCashTransaction("u1", tracker.TxExpense, a.ID,
		tracker.M(50, "USD"), tracker.NewDate(2025, time.March, 1))
	require.NoError(t, err)
	require.NoError(t, tracker.ApplyTransaction(tx, stale, nil))

	err = s.CommitTransaction(ctx, tx, []*tracker.Account{stale}, nil)
	assert.ErrorIs(t, err, tracker.ErrConflict)

	// The transaction record must not have been inserted.
	_, err = s.GetTransaction(ctx, "u1", tx.ID)
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestDiscardTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := tracker.NewAccount("u1", "checking", tracker.Checking, "USD")
	require.NoError(t, s.CreateAccount(ctx, a))

	tx, err := tracker.NewCashTransaction("u1", tracker.TxExpense, a.ID,
		tracker.M(50, "USD"), tracker.NewDate(2025, time.March, 1))
	require.NoError(t, err)
	require.NoError(t, tracker.ApplyTransaction(tx, a, nil))
	require.NoError(t, s.CommitTransaction(ctx, tx, []*tracker.Account{a}, nil))

	reloaded, err := s.GetAccount(ctx, "u1", a.ID)
	require.NoError(t, err)
	require.NoError(t, tracker.ReverseTransaction(tx, reloaded, nil))
	require.NoError(t, s.DiscardTransaction(ctx, "u1", tx.ID, []*tracker.Account{reloaded}, nil))

	_, err = s.GetTransaction(ctx, "u1", tx.ID)
	assert.ErrorIs(t, err, tracker.ErrNotFound)

	gotA, err := s.GetAccount(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.True(t, gotA.Balance.IsZero())
}

func TestListTransactionsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := tracker.NewAccount("u1", "checking", tracker.Checking, "USD")
	require.NoError(t, s.CreateAccount(ctx, a))

	var ids []string
	for i := range 3 {
		tx, err := tracker.NewCashTransaction("u1", tracker.TxDeposit, a.ID,
			tracker.M(10, "USD"), tracker.NewDate(2025, time.March, 1+i))
		require.NoError(t, err)
		tx.Timestamp = time.Date(2025, time.March, 1+i, 12, 0, 0, 0, time.UTC)
		require.NoError(t, s.CommitTransaction(ctx, tx, nil, nil))
		ids = append(ids, tx.ID)
	}

	list, err := s.ListTransactions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)
}
