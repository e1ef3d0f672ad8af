// pkg/ai/errors.go

package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a provider failure for the retry policy.
type ErrorCode string

const (
	InvalidCredential ErrorCode = "invalid_credential"
	RateLimited       ErrorCode = "rate_limited"
	ServerError       ErrorCode = "server_error"
	Unknown           ErrorCode = "unknown"
)

// ProviderError is the only error type providers return from Generate and HealthCheck.
type ProviderError struct {
	Code     ErrorCode
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Code, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable is false for credential and rate-limit failures.
func (e *ProviderError) Retryable() bool {
	return e.Code != InvalidCredential && e.Code != RateLimited
}

// CodeForStatus maps an HTTP status onto an ErrorCode.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return InvalidCredential
	case status == http.StatusTooManyRequests:
		return RateLimited
	case status >= 500:
		return ServerError
	default:
		return Unknown
	}
}

// FromHTTPStatus builds a ProviderError for a failed HTTP exchange.
func FromHTTPStatus(provider string, status int, message string, cause error) *ProviderError {
	return &ProviderError{
		Code:     CodeForStatus(status),
		Provider: provider,
		Status:   status,
		Message:  message,
		Err:      cause,
	}
}

// AsProviderError extracts a *ProviderError from err.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func unknown(provider string, err error) *ProviderError {
	return &ProviderError{Code: Unknown, Provider: provider, Err: err}
}
