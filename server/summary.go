package server

import (
	"net/http"

	tracker "github.com/MJCFL/personal-finance-tracker"
)

// getSummary computes the dashboard for the authenticated user.
func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserID(ctx)

	accounts, err := s.store.ListAccounts(ctx, user)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	budgets, err := s.store.ListBudgets(ctx, user)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tracker.Summarize(accounts, budgets, s.currency))
}
