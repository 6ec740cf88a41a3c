package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error categories for LLM operations.
var (
	// ErrRateLimited indicates the provider refused the call for rate or
	// quota reasons. A bulk import stops issuing further extraction
	// requests when it sees this.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidAPIKey indicates the API key is invalid or expired.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrProviderError indicates a general provider failure.
	ErrProviderError = errors.New("provider error")

	// ErrUnconfigured indicates no extraction provider is configured.
	ErrUnconfigured = errors.New("extraction not configured")
)

// Error wraps a provider failure with classification.
type Error struct {
	Err        error
	StatusCode int
	Provider   string
	Model      string
	RawMessage string
	Category   string // "rate_limit", "invalid_key", "provider_error", "unknown"
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.RawMessage)
	}
	return e.RawMessage
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err carries the rate-limited signal.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// Classify analyzes a provider error and returns a classified Error.
// Rate limiting is detected from status codes (429, 402) and message
// patterns so callers can stop a bulk run instead of retry-storming.
func Classify(err error, provider, model string, statusCode int) *Error {
	if err == nil {
		return nil
	}

	llmErr := &Error{
		Err:        ErrProviderError,
		StatusCode: statusCode,
		Provider:   provider,
		Model:      model,
		RawMessage: err.Error(),
		Category:   "unknown",
	}

	errStr := strings.ToLower(err.Error())

	switch statusCode {
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		llmErr.Err = ErrRateLimited
		llmErr.Category = "rate_limit"
		llmErr.Retryable = true
		return llmErr
	case http.StatusUnauthorized, http.StatusForbidden:
		llmErr.Err = ErrInvalidAPIKey
		llmErr.Category = "invalid_key"
		return llmErr
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		llmErr.Category = "provider_error"
		llmErr.Retryable = true
		return llmErr
	}

	switch {
	case strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "ratelimit") ||
		strings.Contains(errStr, "quota"):
		llmErr.Err = ErrRateLimited
		llmErr.Category = "rate_limit"
		llmErr.Retryable = true
	case strings.Contains(errStr, "invalid api key") || strings.Contains(errStr, "authentication"):
		llmErr.Err = ErrInvalidAPIKey
		llmErr.Category = "invalid_key"
	case strings.Contains(errStr, "overloaded") || strings.Contains(errStr, "capacity") ||
		strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		llmErr.Category = "provider_error"
		llmErr.Retryable = true
	}

	return llmErr
}
