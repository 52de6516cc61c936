package server

import (
	"encoding/json"
	"errors"
	"net/http"

	tracker "github.com/MJCFL/personal-finance-tracker"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	AccountID       string          `json:"accountId"`
	TargetAccountID string          `json:"targetAccountId,omitempty"`
	BudgetID        string          `json:"budgetId,omitempty"`
	Date            string          `json:"date,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.store.ListTransactions(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"transactions": txns, "count": len(txns)})
}

// createTransaction records a cash transaction: it applies the balance
// deltas to the source (and, for payment and transfer, target) accounts,
// accrues the referenced budget, and commits all touched documents
// atomically. On a version conflict the whole read-apply-commit sequence
// is retried a bounded number of times.
func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	typ, err := tracker.ParseTransactionType(req.Type)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	var day tracker.Date
	if req.Date != "" {
		if day, err = tracker.ParseDate(req.Date); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	ctx := r.Context()
	user := UserID(ctx)

	var lastErr error
	for range commitRetries {
		tx, err := tracker.NewCashTransaction(user, typ, req.AccountID, tracker.M(req.Amount, s.currency), day)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		tx.TargetAccountID = req.TargetAccountID
		tx.BudgetID = req.BudgetID
		tx.Notes = req.Notes
		if err := tx.Validate(); err != nil {
			s.writeDomainError(w, err)
			return
		}

		source, err := s.store.GetAccount(ctx, user, tx.AccountID)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		accounts := []*tracker.Account{source}

		var target *tracker.Account
		if tx.TargetAccountID != "" {
			if target, err = s.store.GetAccount(ctx, user, tx.TargetAccountID); err != nil {
				s.writeDomainError(w, err)
				return
			}
			accounts = append(accounts, target)
		}

		if err := tracker.ApplyTransaction(tx, source, target); err != nil {
			s.writeDomainError(w, err)
			return
		}

		var budget *tracker.Budget
		if tx.BudgetID != "" {
			if budget, err = s.store.GetBudget(ctx, user, tx.BudgetID); err != nil {
				s.writeDomainError(w, err)
				return
			}
			budget.Accrue(tx)
		}

		lastErr = s.store.CommitTransaction(ctx, tx, accounts, budget)
		if lastErr == nil {
			WriteJSON(w, http.StatusCreated, tx)
			return
		}
		if !errors.Is(lastErr, tracker.ErrConflict) {
			break
		}
	}
	s.writeDomainError(w, lastErr)
}

// deleteTransaction removes a transaction record and reverses its balance
// and budget side effects. Holdings mutations (buy, sell, remove) are not
// reversible; deleting those records only drops the log entry.
func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserID(ctx)
	id := chi.URLParam(r, "id")

	var lastErr error
	for range commitRetries {
		tx, err := s.store.GetTransaction(ctx, user, id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}

		var accounts []*tracker.Account
		var budget *tracker.Budget
		if tx.Type != tracker.TxBuy && tx.Type != tracker.TxSell && tx.Type != tracker.TxRemove {
			source, err := s.store.GetAccount(ctx, user, tx.AccountID)
			if err != nil && !errors.Is(err, tracker.ErrNotFound) {
				s.writeDomainError(w, err)
				return
			}
			var target *tracker.Account
			if tx.TargetAccountID != "" {
				target, err = s.store.GetAccount(ctx, user, tx.TargetAccountID)
				if err != nil && !errors.Is(err, tracker.ErrNotFound) {
					s.writeDomainError(w, err)
					return
				}
			}
			// Accounts deleted since the transaction was recorded have
			// nothing left to reverse.
			if source != nil {
				if err := tracker.ReverseTransaction(tx, source, target); err != nil {
					s.writeDomainError(w, err)
					return
				}
				accounts = append(accounts, source)
				if target != nil {
					accounts = append(accounts, target)
				}
			}
			if tx.BudgetID != "" {
				budget, err = s.store.GetBudget(ctx, user, tx.BudgetID)
				if err != nil {
					if !errors.Is(err, tracker.ErrNotFound) {
						s.writeDomainError(w, err)
						return
					}
					budget = nil
				} else {
					budget.Release(tx)
				}
			}
		}

		lastErr = s.store.DiscardTransaction(ctx, user, id, accounts, budget)
		if lastErr == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if !errors.Is(lastErr, tracker.ErrConflict) {
			break
		}
	}
	s.writeDomainError(w, lastErr)
}
