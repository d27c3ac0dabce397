// Package llm provides uniform clients for the external LLM providers that
// serpscope captures search-style answers from. Each client applies its
// provider's request framing but presents the same contract: a non-empty
// text payload or a classified error. Retry policy lives in the worker's
// fan-out scheduler, not here, so retry budgets stay bounded per cycle.
package llm

import (
	"context"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single provider call. Retries get a fresh budget.
const DefaultTimeout = 60 * time.Second

// Client is one configured LLM provider. Implementations perform a single
// request per call: no retries, no caching, no backoff.
type Client interface {
	// Name returns the configured provider name (for logs and summaries)
	Name() string

	// Complete sends one prompt and returns the model's text response.
	// Errors are always *ProviderError with one of the classified reasons:
	// timeout, rate-limited, auth-failure, malformed-response, transport-error.
	Complete(ctx context.Context, prompt string) (string, error)
}

// httpClientFor builds the shared HTTP client for a per-call timeout.
// The timeout covers connection establishment through body read.
func httpClientFor(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
