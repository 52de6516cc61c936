package tracker

import "errors"

// Sentinel errors for the caller-visible failure taxonomy. Handlers map
// these onto HTTP statuses; everything else is reported as an internal error.
var (
	// ErrNotFound reports an account, holding, lot, transaction or budget
	// that is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized reports a missing or invalid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation reports a malformed or out-of-range field.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientQuantity reports a disposal exceeding the held amount.
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrConflict reports a concurrent write detected by the version check,
	// after retries were exhausted.
	ErrConflict = errors.New("conflict")

	// ErrUpstreamUnavailable reports a market data source failure after
	// retries. It is recovered locally with fallback prices and never
	// surfaced to API callers.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
