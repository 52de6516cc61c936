package server

import (
	"encoding/json"
	"net/http"

	tracker "github.com/MJCFL/personal-finance-tracker"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type budgetRequest struct {
	Category string          `json:"category"`
	Period   string          `json:"period"`
	Target   decimal.Decimal `json:"target"`
}

func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.ListBudgets(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"budgets": budgets, "count": len(budgets)})
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	period, err := tracker.ParsePeriod(req.Period)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	b := tracker.NewBudget(UserID(r.Context()), req.Category, period, tracker.M(req.Target, s.currency))
	if err := b.Validate(); err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := s.store.CreateBudget(r.Context(), b); err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, b)
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.GetBudget(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

// updateBudget edits category, period and target. The spent accumulator
// is never editable: it only moves with transactions.
func (s *Server) updateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	b, err := s.store.GetBudget(ctx, UserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if req.Category != "" {
		b.Category = req.Category
	}
	if req.Period != "" {
		period, err := tracker.ParsePeriod(req.Period)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		b.Period = period
	}
	if !req.Target.IsZero() {
		b.Target = tracker.M(req.Target, s.currency)
	}
	if err := b.Validate(); err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := s.store.PutBudget(ctx, b); err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBudget(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
