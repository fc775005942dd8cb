package provider

import "errors"

// ProviderError represents errors from upstream provider operations.
type ProviderError struct {
	Provider string // provider name
	Code     string // error code (e.g. "rate_limit_exceeded")
	Message  string
	Err      error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// Sentinel errors distinguish "upstream unavailable" from "not found" at the
// API boundary.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrNotFound            = errors.New("not found upstream")
)

// NewProviderError creates a new provider error.
func NewProviderError(provider, code, message string, err error) ProviderError {
	return ProviderError{Provider: provider, Code: code, Message: message, Err: err}
}
