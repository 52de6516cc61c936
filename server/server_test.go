package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tracker "github.com/MJCFL/personal-finance-tracker"
	"github.com/MJCFL/personal-finance-tracker/marketdata"
	"github.com/MJCFL/personal-finance-tracker/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = map[string]string{
	"tok-alice": "alice",
	"tok-bob":   "bob",
}

// newTestServer builds a router over a temp database and a stub quote
// source serving a fixed AAPL price.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "tracker.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"AAPL": {"usd": 191.25}}`)
	}))
	t.Cleanup(quotes.Close)

	prices := marketdata.New(quotes.URL, "USD", zerolog.Nop())
	return New(st, prices, "USD", zerolog.Nop()).Router(StaticTokens(testTokens))
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

func TestAuth(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/accounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/accounts", "tok-wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/accounts", "tok-alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func createAccount(t *testing.T, h http.Handler, token string, body map[string]any) tracker.Account {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/accounts", token, body)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	var a tracker.Account
	decode(t, w, &a)
	return a
}

func TestAccountCRUD(t *testing.T) {
	h := newTestServer(t)

	a := createAccount(t, h, "tok-alice", map[string]any{
		"name": "checking", "type": "checking", "balance": 1000,
	})
	assert.NotEmpty(t, a.ID)
	assert.True(t, a.Balance.Equal(tracker.M(1000, "USD")))

	w := doJSON(t, h, http.MethodGet, "/api/accounts/"+a.ID, "tok-alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodPut, "/api/accounts/"+a.ID, "tok-alice", map[string]any{"name": "main"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated tracker.Account
	decode(t, w, &updated)
	assert.Equal(t, "main", updated.Name)
	// Balance is not editable through updates.
	assert.True(t, updated.Balance.Equal(tracker.M(1000, "USD")))

	w = doJSON(t, h, http.MethodDelete, "/api/accounts/"+a.ID, "tok-alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/accounts/"+a.ID, "tok-alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountInvalidType(t *testing.T) {
	h := newTestServer(t)
	w := doJSON(t, h, http.MethodPost, "/api/accounts", "tok-alice", map[string]any{
		"name": "wallet", "type": "wallet",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserIsolation(t *testing.T) {
	h := newTestServer(t)
	a := createAccount(t, h, "tok-alice", map[string]any{"name": "checking", "type": "checking"})

	w := doJSON(t, h, http.MethodGet, "/api/accounts/"+a.ID, "tok-bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type tradeResponse struct {
	Account     tracker.Account     `json:"account"`
	Transaction tracker.Transaction `json:"transaction"`
}

func TestBuySellFlow(t *testing.T) {
	h := newTestServer(t)
	a := createAccount(t, h, "tok-alice", map[string]any{"name": "brokerage", "type": "investment"})

	w := doJSON(t, h, http.MethodPost, "/api/accounts/"+a.ID+"/buy", "tok-alice", map[string]any{
		"symbol": "AAPL", "name": "Apple Inc.", "quantity": 10, "price": 100, "date": "2025-01-10",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	w = doJSON(t, h, http.MethodPost, "/api/accounts/"+a.ID+"/buy", "tok-alice", map[string]any{
		"symbol": "AAPL", "quantity": 10, "price": 120, "date": "2025-02-10",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/accounts/"+a.ID+"/sell", "tok-alice", map[string]any{
		"symbol": "AAPL", "quantity": 15, "price": 130, "date": "2025-03-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp tradeResponse
	decode(t, w, &resp)
	require.Len(t, resp.Account.Holdings, 1)
	assert.True(t, resp.Account.Holdings[0].TotalQuantity().Equal(tracker.Q(5)))
	assert.True(t, resp.Transaction.Amount.Equal(tracker.M(1950, "USD")))

	// Selling more than held is rejected without state change.
	w = doJSON(t, h, http.MethodPost, "/api/accounts/"+a.ID+"/sell", "tok-alice", map[string]any{
		"symbol": "AAPL", "quantity": 50, "price": 130,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/accounts/"+a.ID, "tok-alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got tracker.Account
	decode(t, w, &got)
	require.Len(t, got.Holdings, 1)
	assert.True(t, got.Holdings[0].TotalQuantity().Equal(tracker.Q(5)))
}

func TestRemoveHolding(t *testing.T) {
	h := newTestServer(t)
	a := createAccount(t, h, "tok-alice", map[string]any{"name": "brokerage", "type": "investment"})

	w := doJSON(t, h, http.MethodPost, "/api/accounts/"+a.ID+"/buy", "tok-alice", map[string]any{
		"symbol": "BTC", "quantity": 2, "price": 60000,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/accounts/"+a.ID+"/remove", "tok-alice", map[string]any{
		"symbol": "BTC", "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp tradeResponse
	decode(t, w, &resp)
	assert.Empty(t, resp.Account.Holdings)
	assert.True(t, resp.Transaction.Amount.IsZero())
}

func TestExpenseAccruesBudgetAndDeleteReverses(t *testing.T) {
	h := newTestServer(t)
	a := createAccount(t, h, "tok-alice", map[string]any{"name": "checking", "type": "checking", "balance": 1000})

	w := doJSON(t, h, http.MethodPost, "/api/budgets", "tok-alice", map[string]any{
		"category": "food", "period": "monthly", "target": 400,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var b tracker.Budget
	decode(t, w, &b)

	w = doJSON(t, h, http.MethodPost, "/api/transactions", "tok-alice", map[string]any{
		"type": "expense", "accountId": a.ID, "amount": 50, "budgetId": b.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	var tx tracker.Transaction
	decode(t, w, &tx)

	w = doJSON(t, h, http.MethodGet, "/api/accounts/"+a.ID, "tok-alice", nil)
	var gotA tracker.Account
	decode(t, w, &gotA)
	assert.True(t, gotA.Balance.Equal(tracker.M(950, "USD")))

	w = doJSON(t, h, http.MethodGet, "/api/budgets/"+b.ID, "tok-alice", nil)
	var gotB tracker.Budget
	decode(t, w, &gotB)
	assert.True(t, gotB.Spent.Equal(tracker.M(50, "USD")))

	// Deleting the transaction restores balance and budget.
	w = doJSON(t, h, http.MethodDelete, "/api/transactions/"+tx.ID, "tok-alice", nil)
	require.Equal(t, http.StatusNoContent, w.Code, "body: %s", w.Body.String())

	w = doJSON(t, h, http.MethodGet, "/api/accounts/"+a.ID, "tok-alice", nil)
	decode(t, w, &gotA)
	assert.True(t, gotA.Balance.Equal(tracker.M(1000, "USD")))

	w = doJSON(t, h, http.MethodGet, "/api/budgets/"+b.ID, "tok-alice", nil)
	decode(t, w, &gotB)
	assert.True(t, gotB.Spent.IsZero())
}

func TestPaymentSplitsBalances(t *testing.T) {
	h := newTestServer(t)
	checking := createAccount(t, h, "tok-alice", map[string]any{"name": "checking", "type": "checking", "balance": 1000})
	card := createAccount(t, h, "tok-alice", map[string]any{"name": "visa", "type": "credit_card", "balance": 500})

	w := doJSON(t, h, http.MethodPost, "/api/transactions", "tok-alice", map[string]any{
		"type": "payment", "accountId": checking.ID, "targetAccountId": card.ID, "amount": 200,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var got tracker.Account
	w = doJSON(t, h, http.MethodGet, "/api/accounts/"+checking.ID, "tok-alice", nil)
	decode(t, w, &got)
	assert.True(t, got.Balance.Equal(tracker.M(800, "USD")))

	w = doJSON(t, h, http.MethodGet, "/api/accounts/"+card.ID, "tok-alice", nil)
	decode(t, w, &got)
	assert.True(t, got.Balance.Equal(tracker.M(300, "USD")))
}

func TestPaymentTargetMustBeLiability(t *testing.T) {
	h := newTestServer(t)
	checking := createAccount(t, h, "tok-alice", map[string]any{"name": "checking", "type": "checking"})
	savings := createAccount(t, h, "tok-alice", map[string]any{"name": "savings", "type": "savings"})

	w := doJSON(t, h, http.MethodPost, "/api/transactions", "tok-alice", map[string]any{
		"type": "payment", "accountId": checking.ID, "targetAccountId": savings.ID, "amount": 200,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionUnknownAccount(t *testing.T) {
	h := newTestServer(t)
	w := doJSON(t, h, http.MethodPost, "/api/transactions", "tok-alice", map[string]any{
		"type": "expense", "accountId": "nope", "amount": 50,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	h := newTestServer(t)
	checking := createAccount(t, h, "tok-alice", map[string]any{"name": "checking", "type": "checking", "balance": 1000})
	_ = createAccount(t, h, "tok-alice", map[string]any{"name": "visa", "type": "credit_card", "balance": 300})
	_ = checking

	w := doJSON(t, h, http.MethodGet, "/api/summary", "tok-alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var s tracker.Summary
	decode(t, w, &s)
	assert.True(t, s.Assets.Equal(tracker.M(1000, "USD")))
	assert.True(t, s.Liabilities.Equal(tracker.M(300, "USD")))
	assert.True(t, s.NetWorth.Equal(tracker.M(700, "USD")))
}

func TestQuoteEndpoint(t *testing.T) {
	h := newTestServer(t)
	w := doJSON(t, h, http.MethodGet, "/api/prices/AAPL", "tok-alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var q marketdata.Quote
	decode(t, w, &q)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.False(t, q.Synthetic)
	assert.Equal(t, "191.25", q.Price.Decimal().String())
}
