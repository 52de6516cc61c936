package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	tracker "github.com/MJCFL/personal-finance-tracker"
)

// Search returns symbols matching the query. The upstream search endpoint
// returns a JSON list of {symbol, name, currency}; on failure the static
// reference table is filtered instead, so search degrades silently the
// same way quotes do.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is missing", tracker.ErrValidation)
	}
	key := strings.ToUpper(query)

	s.mu.Lock()
	memo, ok := s.searches[key]
	s.mu.Unlock()
	if ok && s.now().Sub(memo.fetchedAt) < s.searchTTL {
		return memo.results, nil
	}

	addr := fmt.Sprintf("%s/search?q=%s", s.baseURL, url.QueryEscape(query))
	results := make([]SearchResult, 0)
	if err := s.jwget(ctx, addr, &results); err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("search source unavailable, using reference table")
		results = fallbackSearch(key, s.currency)
	}

	s.mu.Lock()
	s.searches[key] = searchMemo{results: results, fetchedAt: s.now()}
	s.mu.Unlock()
	return results, nil
}

// fallbackSearch filters the reference table by substring match on symbol
// or name.
func fallbackSearch(query, currency string) []SearchResult {
	results := make([]SearchResult, 0)
	for symbol, name := range referenceNames {
		if strings.Contains(symbol, query) || strings.Contains(strings.ToUpper(name), query) {
			results = append(results, SearchResult{Symbol: symbol, Name: name, Currency: currency})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Symbol < results[j].Symbol })
	return results
}
