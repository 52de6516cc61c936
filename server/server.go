// Package server exposes the tracker over an HTTP JSON API.
//
// Every route below /api requires an Authorization bearer token resolved
// to a user id; all documents a handler touches are scoped to that user.
// Domain errors map onto statuses: not found 404, validation 400,
// insufficient quantity 422, write conflict 409. Upstream price failures
// never fail a request; the response carries fallback data instead.
package server

import (
	"errors"
	"net/http"

	tracker "github.com/MJCFL/personal-finance-tracker"
	"github.com/MJCFL/personal-finance-tracker/marketdata"
	"github.com/MJCFL/personal-finance-tracker/store"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// commitRetries bounds re-reads after a store write conflict before 409
// is returned.
const commitRetries = 3

// Server holds the handler dependencies.
type Server struct {
	store    *store.Store
	prices   *marketdata.Service
	currency string
	log      zerolog.Logger
}

// New creates a Server.
func New(st *store.Store, prices *marketdata.Service, currency string, log zerolog.Logger) *Server {
	return &Server{store: st, prices: prices, currency: currency, log: log}
}

// Router builds the chi router with middleware and all API routes.
func (s *Server) Router(resolve UserResolver) http.Handler {
	r := chi.NewRouter()
	r.Use(Logger(s.log))
	r.Use(Recovery(s.log))
	r.Use(CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Auth(resolve))

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.listAccounts)
			r.Post("/", s.createAccount)
			r.Get("/{id}", s.getAccount)
			r.Put("/{id}", s.updateAccount)
			r.Delete("/{id}", s.deleteAccount)
			r.Post("/{id}/buy", s.buy)
			r.Post("/{id}/sell", s.sell)
			r.Post("/{id}/remove", s.remove)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.listTransactions)
			r.Post("/", s.createTransaction)
			r.Delete("/{id}", s.deleteTransaction)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.listBudgets)
			r.Post("/", s.createBudget)
			r.Get("/{id}", s.getBudget)
			r.Put("/{id}", s.updateBudget)
			r.Delete("/{id}", s.deleteBudget)
		})

		r.Get("/prices/search", s.searchSymbols)
		r.Get("/prices/{symbol}", s.getQuote)
		r.Get("/summary", s.getSummary)
	})
	return r
}

// writeDomainError maps a domain error onto an HTTP response.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tracker.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, tracker.ErrValidation):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracker.ErrInsufficientQuantity):
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, tracker.ErrConflict):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error().Err(err).Msg("internal error")
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
