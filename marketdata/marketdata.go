// Package marketdata provides best-effort price lookup for tickers.
//
// Lookups try an external quote source with a bounded number of retries
// and a timeout; on total failure they fall back to a static table of
// reference prices, or to a synthetic deterministic price for unknown
// symbols. Upstream failures are absorbed here and never surfaced to the
// caller: the worst outcome of a quote is an approximate price.
//
// Results are memoized in-process with a TTL (5 minutes for quotes, 24
// hours for searches). Entries are never actively evicted, only treated
// as stale past their TTL and overwritten on the next lookup.
package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	tracker "github.com/MJCFL/personal-finance-tracker"
	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
)

const (
	// DefaultQuoteTTL bounds how long a memoized quote is served without a
	// fresh upstream call.
	DefaultQuoteTTL = 5 * time.Minute
	// DefaultSearchTTL bounds how long memoized search results are served.
	DefaultSearchTTL = 24 * time.Hour

	retries        = 2
	backoffStep    = time.Second
	requestTimeout = 5 * time.Second
)

// Clock returns the current time. Injected so TTL behavior is testable.
type Clock func() time.Time

// Quote is a price for one symbol. Synthetic marks fallback data.
type Quote struct {
	Symbol    string        `json:"symbol"`
	Price     tracker.Money `json:"price"`
	Synthetic bool          `json:"synthetic"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

// SearchResult is one symbol matching a search query.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Service fetches quotes and symbol searches with memoization.
type Service struct {
	client    *http.Client
	baseURL   string
	currency  string
	now       Clock
	quoteTTL  time.Duration
	searchTTL time.Duration
	log       zerolog.Logger

	mu       sync.Mutex
	quotes   map[string]Quote
	searches map[string]searchMemo
}

type searchMemo struct {
	results   []SearchResult
	fetchedAt time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects a clock, for tests.
func WithClock(now Clock) Option { return func(s *Service) { s.now = now } }

// WithTTL overrides the quote and search memo TTLs.
func WithTTL(quote, search time.Duration) Option {
	return func(s *Service) { s.quoteTTL, s.searchTTL = quote, search }
}

// WithClient injects an HTTP client.
func WithClient(c *http.Client) Option { return func(s *Service) { s.client = c } }

// New creates a Service against the given quote source base URL, pricing
// in the given currency.
func New(baseURL, currency string, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		client:    &http.Client{Timeout: requestTimeout},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		currency:  strings.ToUpper(currency),
		now:       time.Now,
		quoteTTL:  DefaultQuoteTTL,
		searchTTL: DefaultSearchTTL,
		log:       log,
		quotes:    make(map[string]Quote),
		searches:  make(map[string]searchMemo),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote returns a price for the symbol. It never fails on upstream
// trouble: after retries it falls back to reference or synthetic data.
func (s *Service) Quote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, fmt.Errorf("%w: symbol is missing", tracker.ErrValidation)
	}

	s.mu.Lock()
	memo, ok := s.quotes[symbol]
	s.mu.Unlock()
	if ok && s.now().Sub(memo.FetchedAt) < s.quoteTTL {
		return memo, nil
	}

	q := Quote{Symbol: symbol, FetchedAt: s.now()}
	price, err := s.fetchPrice(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("quote source unavailable, using fallback price")
		price = fallbackPrice(symbol)
		q.Synthetic = true
	}
	q.Price = tracker.M(price, s.currency)

	s.mu.Lock()
	s.quotes[symbol] = q
	s.mu.Unlock()
	return q, nil
}

// fetchPrice queries the upstream quote source. The response is shaped
// {"SYMBOL": {"usd": 123.45}}; the price is extracted by jsonpath so the
// source's envelope can carry extra fields.
func (s *Service) fetchPrice(ctx context.Context, symbol string) (float64, error) {
	addr := fmt.Sprintf("%s/price?symbol=%s&currency=%s", s.baseURL,
		url.QueryEscape(symbol), url.QueryEscape(strings.ToLower(s.currency)))

	var jobj any
	if err := s.jwget(ctx, addr, &jobj); err != nil {
		return 0, err
	}

	path := fmt.Sprintf("$[%q][%q]", symbol, strings.ToLower(s.currency))
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%w: no price for %q in response: %v", tracker.ErrUpstreamUnavailable, symbol, err)
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: price for %q is not a number", tracker.ErrUpstreamUnavailable, symbol)
	}
	return val, nil
}

// jwget performs an HTTP GET with retries and linear backoff, and
// unmarshals the JSON response into data.
func (s *Service) jwget(ctx context.Context, addr string, data any) error {
	var errs error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * backoffStep):
			case <-ctx.Done():
				return errors.Join(errs, ctx.Err())
			}
		}
		err := s.jwgetOnce(ctx, addr, data)
		if err == nil {
			return nil
		}
		errs = errors.Join(errs, err)
	}
	return fmt.Errorf("%w: %v", tracker.ErrUpstreamUnavailable, errs)
}

func (s *Service) jwgetOnce(ctx context.Context, addr string, data any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
