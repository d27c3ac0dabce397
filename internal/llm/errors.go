package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/serpscope/serpscope/internal/types"
)

// ProviderError is a classified failure from one provider call. The class
// drives the scheduler's retry decision; the wrapped error keeps the detail.
type ProviderError struct {
	Provider string
	Class    types.ErrorClass
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Class, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// classified wraps err with the given class
func classified(provider string, class types.ErrorClass, err error) *ProviderError {
	return &ProviderError{Provider: provider, Class: class, Err: err}
}

// ClassOf extracts the error class from a provider call error.
// Unclassified errors are treated as transport failures.
func ClassOf(err error) types.ErrorClass {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Class
	}
	return types.ErrTransport
}

// classFromStatus maps an HTTP status code to an error class
func classFromStatus(code int) types.ErrorClass {
	switch {
	case code == http.StatusTooManyRequests:
		return types.ErrRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return types.ErrAuthFailure
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return types.ErrTimeout
	default:
		// Remaining 4xx responses mean we framed the request badly enough
		// that the provider couldn't answer; retrying won't help.
		if code >= 400 && code < 500 {
			return types.ErrMalformedResponse
		}
		return types.ErrTransport
	}
}

// classify turns a transport-level error into a classified ProviderError.
// Deadline and timeout errors map to the timeout class; everything else at
// this level is a transport failure.
func classify(provider string, err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return classified(provider, types.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return classified(provider, types.ErrTimeout, err)
	}
	return classified(provider, types.ErrTransport, err)
}

// classifyMessage classifies an error by its message. SDK-wrapped errors
// (the Anthropic client) don't expose status codes in a uniform way, so we
// fall back to string matching the way upstream error text is written.
func classifyMessage(provider string, err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return classified(provider, types.ErrTimeout, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return classified(provider, types.ErrRateLimited, err)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "authentication") || strings.Contains(msg, "api key"):
		return classified(provider, types.ErrAuthFailure, err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return classified(provider, types.ErrTimeout, err)
	default:
		return classified(provider, types.ErrTransport, err)
	}
}
