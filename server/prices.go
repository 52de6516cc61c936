package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// getQuote returns a price for one symbol. A failing upstream source is
// invisible here: the quote is served from the fallback table instead,
// flagged synthetic.
func (s *Server) getQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.prices.Quote(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

func (s *Server) searchSymbols(w http.ResponseWriter, r *http.Request) {
	results, err := s.prices.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"results": results, "count": len(results)})
}
