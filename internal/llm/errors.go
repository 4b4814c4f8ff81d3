package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", providerLabel(e.Provider), e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema or is not JSON when JSON was asked for.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable or
// rejected the request.
type ErrProviderUnavailable struct {
	Provider string
	Err      error

	// Permanent is set for client errors (bad key, unknown model) that
	// will fail the same way on every attempt.
	Permanent bool
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %v", providerLabel(e.Provider), e.Err)
	}
	return providerLabel(e.Provider) + " unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates a structured response was truncated
// because it hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrNotConfigured indicates a provider was requested whose credentials
// or endpoint are missing.
type ErrNotConfigured struct {
	Provider string
	Setting  string
}

func (e *ErrNotConfigured) Error() string {
	return e.Setting + " is not set"
}

// unavailable maps an HTTP status from a provider SDK to the error taxonomy.
func unavailable(provider string, status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Provider: provider, Err: err}
	}
	return &ErrProviderUnavailable{
		Provider:  provider,
		Err:       err,
		Permanent: status >= 400 && status < 500,
	}
}

func providerLabel(name string) string {
	if name == "" {
		return "LLM provider"
	}
	return name
}
