package types

import "time"

// CycleState represents where a refresh cycle is in its lifecycle
type CycleState string

const (
	// CycleIdle means no cycle is running
	CycleIdle CycleState = "idle"
	// CycleSelecting means due pairs are being computed
	CycleSelecting CycleState = "selecting"
	// CycleCapturing means provider calls are in flight
	CycleCapturing CycleState = "capturing"
	// CycleExtracting means entity extraction is running over new captures
	CycleExtracting CycleState = "extracting"
	// CycleCompleted is the normal terminal state
	CycleCompleted CycleState = "completed"
	// CycleFailed is the terminal state for unrecoverable errors
	// (e.g. the store became unavailable mid-cycle)
	CycleFailed CycleState = "failed"
)

// ErrorClass classifies a failure for retry decisions and cycle reporting
type ErrorClass string

const (
	// ErrTimeout means the provider call exceeded its deadline (retryable)
	ErrTimeout ErrorClass = "timeout"
	// ErrRateLimited means the provider refused the call with 429 (retryable)
	ErrRateLimited ErrorClass = "rate-limited"
	// ErrAuthFailure means credentials were rejected (terminal)
	ErrAuthFailure ErrorClass = "auth-failure"
	// ErrMalformedResponse means the provider returned an unusable payload (terminal)
	ErrMalformedResponse ErrorClass = "malformed-response"
	// ErrTransport covers connection-level and 5xx failures (retryable)
	ErrTransport ErrorClass = "transport-error"
	// ErrStoreUnavailable means the capture store rejected a read or write;
	// this aborts the remainder of the cycle
	ErrStoreUnavailable ErrorClass = "store-unavailable"
	// ErrExtraction means the extraction call failed for one capture (non-fatal)
	ErrExtraction ErrorClass = "extraction-failure"
)

// Retryable reports whether the fan-out scheduler should retry this class.
// Auth failures and malformed responses won't get better on retry.
func (c ErrorClass) Retryable() bool {
	switch c {
	case ErrTimeout, ErrRateLimited, ErrTransport:
		return true
	default:
		return false
	}
}

// PairFailure records one (word, provider) pair that failed during a cycle
// phase, with its classified reason: a capture that went failed-terminal, or
// an extraction call that failed for an already-persisted capture.
type PairFailure struct {
	WordID       string     `json:"word_id"`
	WordName     string     `json:"word_name"`
	ProviderID   string     `json:"provider_id"`
	ProviderName string     `json:"provider_name"`
	Class        ErrorClass `json:"class"`
	Attempts     int        `json:"attempts"`
	Message      string     `json:"message"`
}

// CycleSummary reports the outcome of one refresh cycle. It is persisted
// for the status/reporting surface after every run, completed or failed.
type CycleSummary struct {
	CycleID            string        `json:"cycle_id"`
	State              CycleState    `json:"state"`
	PairsDue           int           `json:"pairs_due"`
	PairsCaptured      int           `json:"pairs_captured"`
	PairsFailed        int           `json:"pairs_failed"`
	EntitiesExtracted  int           `json:"entities_extracted"`
	ExtractionFailures int           `json:"extraction_failures"`
	MentionsAnalyzed   int           `json:"mentions_analyzed"`
	Failures           []PairFailure `json:"failures,omitempty"`
	Error              string        `json:"error,omitempty"` // set when State == CycleFailed
	StartedAt          time.Time     `json:"started_at"`
	FinishedAt         time.Time     `json:"finished_at"`
}

// Duration returns the cycle's wall-clock duration
func (s *CycleSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
