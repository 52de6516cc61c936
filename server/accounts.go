package server

import (
	"encoding/json"
	"errors"
	"net/http"

	tracker "github.com/MJCFL/personal-finance-tracker"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type accountRequest struct {
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Balance      *decimal.Decimal `json:"balance,omitempty"`
	InterestRate float64          `json:"interestRate,omitempty"`
	Buckets      []tracker.Bucket `json:"buckets,omitempty"`
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"accounts": accounts, "count": len(accounts)})
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	typ, err := tracker.ParseAccountType(req.Type)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	a := tracker.NewAccount(UserID(r.Context()), req.Name, typ, s.currency)
	if req.Balance != nil {
		a.Balance = tracker.M(*req.Balance, s.currency)
	}
	a.InterestRate = req.InterestRate
	a.Buckets = req.Buckets
	if err := a.Validate(); err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := s.store.CreateAccount(r.Context(), a); err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, a)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.GetAccount(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, a)
}

// updateAccount overwrites the account's editable fields. Balance is not
// editable here; it only moves through transactions.
func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := s.store.UpdateAccount(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"),
		func(a *tracker.Account) error {
			if req.Name != "" {
				a.Name = req.Name
			}
			if req.Type != "" {
				typ, err := tracker.ParseAccountType(req.Type)
				if err != nil {
					return err
				}
				a.Type = typ
			}
			a.InterestRate = req.InterestRate
			if req.Buckets != nil {
				a.Buckets = req.Buckets
			}
			return a.Validate()
		})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, a)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAccount(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tradeRequest struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Date     string          `json:"date,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

func (r tradeRequest) day() (tracker.Date, error) {
	if r.Date == "" {
		return tracker.Date{}, nil
	}
	return tracker.ParseDate(r.Date)
}

// trade runs a holding mutation against the account with bounded retries
// on write conflict, committing the account document and the produced
// transaction record atomically.
func (s *Server) trade(w http.ResponseWriter, r *http.Request, mutate func(*tracker.Account) (*tracker.Transaction, error)) {
	ctx := r.Context()
	user := UserID(ctx)
	id := chi.URLParam(r, "id")

	var lastErr error
	for range commitRetries {
		a, err := s.store.GetAccount(ctx, user, id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		tx, err := mutate(a)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		lastErr = s.store.CommitTransaction(ctx, tx, []*tracker.Account{a}, nil)
		if lastErr == nil {
			WriteJSON(w, http.StatusCreated, map[string]any{"account": a, "transaction": tx})
			return
		}
		if !errors.Is(lastErr, tracker.ErrConflict) {
			break
		}
	}
	s.writeDomainError(w, lastErr)
}

func (s *Server) buy(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := req.day()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.trade(w, r, func(a *tracker.Account) (*tracker.Transaction, error) {
		return a.Buy(req.Symbol, req.Name, tracker.Q(req.Quantity), tracker.M(req.Price, s.currency), day, req.Notes)
	})
}

func (s *Server) sell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := req.day()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.trade(w, r, func(a *tracker.Account) (*tracker.Transaction, error) {
		return a.Sell(req.Symbol, tracker.Q(req.Quantity), tracker.M(req.Price, s.currency), day, req.Notes)
	})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := req.day()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.trade(w, r, func(a *tracker.Account) (*tracker.Transaction, error) {
		return a.Remove(req.Symbol, tracker.Q(req.Quantity), day, req.Notes)
	})
}
