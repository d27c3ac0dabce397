package worker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/serpscope/serpscope/internal/llm"
	"github.com/serpscope/serpscope/internal/storage"
	"github.com/serpscope/serpscope/internal/types"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// RetryConfig holds the per-pair retry policy for provider calls
type RetryConfig struct {
	MaxAttempts       int           // Total attempts per pair (default: 3)
	InitialBackoff    time.Duration // First retry delay (default: 1s)
	MaxBackoff        time.Duration // Backoff ceiling (default: 30s)
	BackoffMultiplier float64       // Exponential growth factor (default: 2.0)
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Scheduler fans out capture requests across all due pairs with bounded
// parallelism. Each pair ends the run in exactly one of two states: captured
// (persisted immediately) or failed-terminal (recorded for the summary).
// One provider's outage never blocks capture for other providers or words.
type Scheduler struct {
	store         storage.Storage
	maxConcurrent int64
	retry         RetryConfig
	providerRPS   float64 // per-provider request pacing; 0 = unpaced

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// DefaultMaxConcurrent bounds simultaneous outbound provider calls
const DefaultMaxConcurrent = 5

// NewScheduler creates a fan-out scheduler
func NewScheduler(store storage.Storage, maxConcurrent int, retry RetryConfig, providerRPS float64) *Scheduler {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}
	return &Scheduler{
		store:         store,
		maxConcurrent: int64(maxConcurrent),
		retry:         retry,
		providerRPS:   providerRPS,
		limiters:      make(map[string]*rate.Limiter),
	}
}

type pairResult struct {
	capture  *types.Capture
	failure  *types.PairFailure
	storeErr error
}

// Run executes all due pairs and blocks until every pair is terminal.
// Captures are persisted as each pair succeeds, so a crash mid-cycle loses
// only in-flight work. A store write failure is returned as an error after
// all in-flight pairs drain; captures already persisted stay persisted.
func (s *Scheduler) Run(ctx context.Context, pairs []types.Pair, clients map[string]llm.Client) ([]*types.Capture, []types.PairFailure, error) {
	sem := semaphore.NewWeighted(s.maxConcurrent)
	results := make(chan pairResult, len(pairs))

	var wg sync.WaitGroup
	for _, pair := range pairs {
		wg.Add(1)
		go func(pair types.Pair) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results <- pairResult{failure: s.failureFor(pair, types.ErrTimeout, 0, err)}
				return
			}
			defer sem.Release(1)
			results <- s.capturePair(ctx, pair, clients[pair.Provider.ID])
		}(pair)
	}
	wg.Wait()
	close(results)

	var captures []*types.Capture
	var failures []types.PairFailure
	var storeErr error
	for r := range results {
		switch {
		case r.storeErr != nil:
			storeErr = r.storeErr
		case r.capture != nil:
			captures = append(captures, r.capture)
		case r.failure != nil:
			failures = append(failures, *r.failure)
		}
	}

	if storeErr != nil {
		return captures, failures, fmt.Errorf("capture store rejected a write: %w", storeErr)
	}
	return captures, failures, nil
}

// capturePair drives one (word, provider) pair to a terminal state
func (s *Scheduler) capturePair(ctx context.Context, pair types.Pair, client llm.Client) pairResult {
	if client == nil {
		// No client could be built for this provider (missing credentials).
		// Terminal up front: retrying cannot produce a key.
		return pairResult{failure: s.failureFor(pair, types.ErrAuthFailure, 0,
			fmt.Errorf("no client configured for provider %s", pair.Provider.Name))}
	}

	if limiter := s.limiterFor(pair.Provider.ID); limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return pairResult{failure: s.failureFor(pair, types.ErrTimeout, 0, err)}
		}
	}

	backoff := s.retry.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		content, err := client.Complete(ctx, llm.SerpPrompt(pair.Word.Name))
		if err == nil {
			capture := &types.Capture{
				ID:         uuid.New().String(),
				WordID:     pair.Word.ID,
				ProviderID: pair.Provider.ID,
				Content:    content,
				CapturedAt: time.Now().UTC(),
			}
			if storeErr := s.store.InsertCapture(ctx, capture); storeErr != nil {
				return pairResult{storeErr: storeErr}
			}
			if attempt > 1 {
				fmt.Printf("capture %q/%s succeeded after %d attempts\n",
					pair.Word.Name, pair.Provider.Name, attempt)
			}
			return pairResult{capture: capture}
		}

		lastErr = err
		class := llm.ClassOf(err)
		if !class.Retryable() {
			return pairResult{failure: s.failureFor(pair, class, attempt, err)}
		}
		if attempt == s.retry.MaxAttempts {
			return pairResult{failure: s.failureFor(pair, class, attempt, err)}
		}

		delay := withJitter(backoff)
		fmt.Printf("capture %q/%s failed (attempt %d/%d), retrying in %v: %v\n",
			pair.Word.Name, pair.Provider.Name, attempt, s.retry.MaxAttempts, delay, err)

		select {
		case <-time.After(delay):
			backoff = time.Duration(float64(backoff) * s.retry.BackoffMultiplier)
			if backoff > s.retry.MaxBackoff {
				backoff = s.retry.MaxBackoff
			}
		case <-ctx.Done():
			return pairResult{failure: s.failureFor(pair, types.ErrTimeout, attempt, ctx.Err())}
		}
	}

	// Unreachable: the loop always returns. Kept for the compiler.
	return pairResult{failure: s.failureFor(pair, llm.ClassOf(lastErr), s.retry.MaxAttempts, lastErr)}
}

// limiterFor returns the shared rate limiter for one provider, creating it
// on first use. Pacing is per provider so a slow provider can't starve fast ones.
func (s *Scheduler) limiterFor(providerID string) *rate.Limiter {
	if s.providerRPS <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.limiters[providerID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.providerRPS), 1)
		s.limiters[providerID] = limiter
	}
	return limiter
}

func (s *Scheduler) failureFor(pair types.Pair, class types.ErrorClass, attempts int, err error) *types.PairFailure {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &types.PairFailure{
		WordID:       pair.Word.ID,
		WordName:     pair.Word.Name,
		ProviderID:   pair.Provider.ID,
		ProviderName: pair.Provider.Name,
		Class:        class,
		Attempts:     attempts,
		Message:      msg,
	}
}

// withJitter spreads retries out so concurrent pairs hitting the same
// rate-limited provider don't retry in lockstep (equal jitter: half fixed,
// half random).
func withJitter(d time.Duration) time.Duration {
	if d <= 1 {
		return d
	}
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)))
}
