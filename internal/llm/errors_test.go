package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/serpscope/serpscope/internal/types"
)

func TestClassFromStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected types.ErrorClass
	}{
		{http.StatusTooManyRequests, types.ErrRateLimited},
		{http.StatusUnauthorized, types.ErrAuthFailure},
		{http.StatusForbidden, types.ErrAuthFailure},
		{http.StatusRequestTimeout, types.ErrTimeout},
		{http.StatusGatewayTimeout, types.ErrTimeout},
		{http.StatusBadRequest, types.ErrMalformedResponse},
		{http.StatusNotFound, types.ErrMalformedResponse},
		{http.StatusInternalServerError, types.ErrTransport},
		{http.StatusBadGateway, types.ErrTransport},
	}

	for _, tt := range tests {
		if got := classFromStatus(tt.code); got != tt.expected {
			t.Errorf("Status %d: expected %s, got %s", tt.code, tt.expected, got)
		}
	}
}

func TestClassOf(t *testing.T) {
	classified := classified("openai", types.ErrRateLimited, errors.New("429"))
	if got := ClassOf(classified); got != types.ErrRateLimited {
		t.Errorf("Expected rate-limited, got %s", got)
	}

	wrapped := fmt.Errorf("call failed: %w", classified)
	if got := ClassOf(wrapped); got != types.ErrRateLimited {
		t.Errorf("Expected class preserved through wrapping, got %s", got)
	}

	if got := ClassOf(errors.New("something else")); got != types.ErrTransport {
		t.Errorf("Unclassified errors default to transport, got %s", got)
	}
}

func TestClassifyDeadline(t *testing.T) {
	pe := classify("gemini", context.DeadlineExceeded)
	if pe.Class != types.ErrTimeout {
		t.Errorf("Expected deadline exceeded to classify as timeout, got %s", pe.Class)
	}
	if !errors.Is(pe, context.DeadlineExceeded) {
		t.Error("Expected the original error preserved in the chain")
	}

	pe = classify("gemini", errors.New("connection refused"))
	if pe.Class != types.ErrTransport {
		t.Errorf("Expected transport, got %s", pe.Class)
	}
}

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		msg      string
		expected types.ErrorClass
	}{
		{"429 Too Many Requests", types.ErrRateLimited},
		{"rate limit exceeded", types.ErrRateLimited},
		{"401 unauthorized", types.ErrAuthFailure},
		{"invalid api key provided", types.ErrAuthFailure},
		{"request timeout after 60s", types.ErrTimeout},
		{"connection reset by peer", types.ErrTransport},
	}

	for _, tt := range tests {
		if pe := classifyMessage("anthropic", errors.New(tt.msg)); pe.Class != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.msg, tt.expected, pe.Class)
		}
	}
}

func TestRetryableClasses(t *testing.T) {
	retryable := []types.ErrorClass{types.ErrTimeout, types.ErrRateLimited, types.ErrTransport}
	for _, class := range retryable {
		if !class.Retryable() {
			t.Errorf("Expected %s to be retryable", class)
		}
	}

	terminal := []types.ErrorClass{types.ErrAuthFailure, types.ErrMalformedResponse}
	for _, class := range terminal {
		if class.Retryable() {
			t.Errorf("Expected %s to be terminal", class)
		}
	}
}
