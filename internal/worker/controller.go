// Package worker implements the refresh worker: due-pair selection, the
// bounded fan-out over LLM providers, the entity-extraction pass, and the
// cycle controller that sequences them.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/serpscope/serpscope/internal/llm"
	"github.com/serpscope/serpscope/internal/storage"
	"github.com/serpscope/serpscope/internal/types"
)

// ErrCycleRunning is returned when a cycle is requested while one is already
// in flight. The caller gets the signal, not an error state change.
var ErrCycleRunning = errors.New("cycle already running")

// ClientFactory builds an LLM client for a configured provider row.
// Injected so tests can substitute instrumented fakes.
type ClientFactory func(p *types.Provider) (llm.Client, error)

// Config holds cycle controller configuration
type Config struct {
	Store              storage.Storage
	NewClient          ClientFactory // default: llm.New with CallTimeout
	RefreshInterval    time.Duration // freshness window per pair (default: 14 days)
	MaxConcurrent      int           // bound on in-flight provider calls (default: 5)
	Retry              RetryConfig   // per-pair retry policy
	ProviderRPS        float64       // per-provider pacing; 0 = unpaced
	CallTimeout        time.Duration // per provider call (default: 60s)
	ExtractionProvider string        // provider name used for extraction; empty = first usable
	AnalyzeMentions    bool          // run the brand-mention pass after extraction
	Clock              func() time.Time
}

// DefaultConfig returns default controller configuration
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval: DefaultRefreshInterval,
		MaxConcurrent:   DefaultMaxConcurrent,
		Retry:           DefaultRetryConfig(),
		CallTimeout:     llm.DefaultTimeout,
		AnalyzeMentions: true,
	}
}

// Controller owns the cycle state machine:
//
//	idle → selecting → capturing → extracting → completed
//
// with failed reachable from any state on a store error. The single-flight
// guard is the controller's own lock, so independent controllers (e.g. in
// tests) never share ambient state. On completed or failed the controller
// returns to idle.
type Controller struct {
	store     storage.Storage
	scheduler *Scheduler
	factory   ClientFactory
	cfg       *Config
	clock     func() time.Time

	mu    sync.Mutex
	state types.CycleState
}

// New creates a cycle controller
func New(cfg *Config) (*Controller, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = llm.DefaultTimeout
	}

	factory := cfg.NewClient
	if factory == nil {
		timeout := cfg.CallTimeout
		factory = func(p *types.Provider) (llm.Client, error) {
			return llm.New(p, timeout)
		}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Controller{
		store:     cfg.Store,
		scheduler: NewScheduler(cfg.Store, cfg.MaxConcurrent, cfg.Retry, cfg.ProviderRPS),
		factory:   factory,
		cfg:       cfg,
		clock:     clock,
	}, nil
}

// State returns the controller's current cycle state
func (c *Controller) State() types.CycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == "" {
		return types.CycleIdle
	}
	return c.state
}

func (c *Controller) setState(state types.CycleState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// RunCycle executes one full refresh cycle and returns its summary.
// A second call while one is running returns ErrCycleRunning without
// starting a second selection pass. Partial work already persisted is
// retained on failure; nothing is ever rolled back.
func (c *Controller) RunCycle(ctx context.Context) (*types.CycleSummary, error) {
	// Single-flight guard: acquire idle → selecting atomically
	c.mu.Lock()
	if c.state != "" && c.state != types.CycleIdle {
		c.mu.Unlock()
		return nil, ErrCycleRunning
	}
	c.state = types.CycleSelecting
	c.mu.Unlock()
	defer c.setState(types.CycleIdle)

	summary := &types.CycleSummary{
		CycleID:   uuid.New().String(),
		StartedAt: c.clock().UTC(),
	}

	words, err := c.store.ListActiveWords(ctx)
	if err != nil {
		return c.fail(ctx, summary, storeFailure(fmt.Errorf("failed to list active words: %w", err)))
	}
	providers, err := c.store.ListActiveProviders(ctx)
	if err != nil {
		return c.fail(ctx, summary, storeFailure(fmt.Errorf("failed to list active providers: %w", err)))
	}

	latest := make(map[types.PairKey]time.Time, len(words)*len(providers))
	for _, w := range words {
		for _, p := range providers {
			ts, err := c.store.MostRecentCaptureTime(ctx, w.ID, p.ID)
			if err != nil {
				return c.fail(ctx, summary, storeFailure(fmt.Errorf("failed to read capture history: %w", err)))
			}
			if ts != nil {
				latest[types.PairKey{WordID: w.ID, ProviderID: p.ID}] = *ts
			}
		}
	}

	pairs := DuePairs(words, providers, latest, c.clock(), c.cfg.RefreshInterval)
	summary.PairsDue = len(pairs)
	fmt.Printf("cycle %s: %d words x %d providers, %d pairs due\n",
		summary.CycleID, len(words), len(providers), len(pairs))

	if len(pairs) == 0 {
		return c.complete(ctx, summary)
	}

	clients := c.buildClients(providers)

	c.setState(types.CycleCapturing)
	captures, failures, err := c.scheduler.Run(ctx, pairs, clients)
	summary.PairsCaptured = len(captures)
	summary.PairsFailed = len(failures)
	summary.Failures = failures
	if err != nil {
		return c.fail(ctx, summary, storeFailure(err))
	}

	c.setState(types.CycleExtracting)
	if err := c.extractAll(ctx, summary, captures, words, clients, providers); err != nil {
		return c.fail(ctx, summary, storeFailure(err))
	}

	return c.complete(ctx, summary)
}

// buildClients constructs one client per active provider. Factory failures
// (typically a missing API key) are logged and leave the provider without a
// client; the scheduler then records its pairs as terminal auth failures
// instead of aborting the cycle.
func (c *Controller) buildClients(providers []*types.Provider) map[string]llm.Client {
	clients := make(map[string]llm.Client, len(providers))
	for _, p := range providers {
		client, err := c.factory(p)
		if err != nil {
			fmt.Printf("provider %s unusable this cycle: %v\n", p.Name, err)
			continue
		}
		clients[p.ID] = client
	}
	return clients
}

// extractionClient picks the designated extraction client: the configured
// provider by name, else the first active provider a client was built for.
func (c *Controller) extractionClient(clients map[string]llm.Client, providers []*types.Provider) llm.Client {
	if c.cfg.ExtractionProvider != "" {
		for _, p := range providers {
			if p.Name == c.cfg.ExtractionProvider {
				return clients[p.ID]
			}
		}
		fmt.Printf("extraction provider %q is not an active provider\n", c.cfg.ExtractionProvider)
		return nil
	}
	for _, p := range providers {
		if client, ok := clients[p.ID]; ok {
			return client
		}
	}
	return nil
}

// extractAll runs extraction (and optionally mention analysis) over every
// capture produced this cycle. Provider-side failures are per-capture and
// non-fatal; store failures abort the cycle.
func (c *Controller) extractAll(ctx context.Context, summary *types.CycleSummary, captures []*types.Capture, words []*types.Word, clients map[string]llm.Client, providers []*types.Provider) error {
	client := c.extractionClient(clients, providers)
	if client == nil {
		// Every capture this cycle goes without entities; future cycles
		// produce fresh captures and fresh extraction attempts.
		summary.ExtractionFailures = len(captures)
		fmt.Printf("no extraction client available, skipping extraction for %d captures\n", len(captures))
		return nil
	}

	extractor := NewExtractor(client, c.store)
	var analyzer *Analyzer
	if c.cfg.AnalyzeMentions {
		analyzer = NewAnalyzer(client, c.store)
	}

	wordsByID := make(map[string]*types.Word, len(words))
	for _, w := range words {
		wordsByID[w.ID] = w
	}
	providersByID := make(map[string]*types.Provider, len(providers))
	for _, p := range providers {
		providersByID[p.ID] = p
	}

	for _, capture := range captures {
		entities, err := extractor.ExtractCapture(ctx, capture)
		if err != nil {
			if isProviderError(err) {
				summary.ExtractionFailures++
				summary.Failures = append(summary.Failures,
					extractionFailure(capture, wordsByID, providersByID, err))
				fmt.Printf("extraction failed for capture %s: %v\n", capture.ID, err)
				continue
			}
			return err // store failure aborts the remainder of the cycle
		}
		summary.EntitiesExtracted += len(entities)

		if analyzer == nil {
			continue
		}
		word := wordsByID[capture.WordID]
		if word == nil {
			continue
		}
		analyzed, err := analyzer.AnalyzeCapture(ctx, capture, word)
		if err != nil {
			if isProviderError(err) {
				fmt.Printf("mention analysis failed for capture %s: %v\n", capture.ID, err)
				continue
			}
			return err
		}
		if analyzed {
			summary.MentionsAnalyzed++
		}
	}

	return nil
}

// complete finalizes a successful cycle. A cycle with some failed pairs is
// still a completed cycle; partial success is never reported as hard failure.
func (c *Controller) complete(ctx context.Context, summary *types.CycleSummary) (*types.CycleSummary, error) {
	summary.State = types.CycleCompleted
	summary.FinishedAt = c.clock().UTC()
	c.record(ctx, summary)
	fmt.Printf("cycle %s completed in %v: %d captured, %d failed, %d entities\n",
		summary.CycleID, summary.Duration(), summary.PairsCaptured, summary.PairsFailed,
		summary.EntitiesExtracted)
	return summary, nil
}

// fail finalizes a cycle that could not make progress. Captures and entities
// already persisted stay persisted.
func (c *Controller) fail(ctx context.Context, summary *types.CycleSummary, err error) (*types.CycleSummary, error) {
	summary.State = types.CycleFailed
	summary.Error = err.Error()
	summary.FinishedAt = c.clock().UTC()
	c.record(ctx, summary)
	fmt.Printf("cycle %s failed after %v: %v\n", summary.CycleID, summary.Duration(), err)
	return summary, err
}

// record persists the cycle summary for the status surface. The cycle's
// outcome doesn't flip on a history write failure; it is logged and the
// summary is still returned to the caller.
func (c *Controller) record(ctx context.Context, summary *types.CycleSummary) {
	if err := c.store.RecordCycle(ctx, summary); err != nil {
		fmt.Printf("warning: failed to record cycle %s: %v\n", summary.CycleID, err)
	}
}

// isProviderError reports whether err originated at a provider boundary
// (retry/skip territory) as opposed to the capture store (abort territory).
func isProviderError(err error) bool {
	var pe *llm.ProviderError
	return errors.As(err, &pe)
}

// storeFailure tags a cycle-aborting storage error with its class so the
// recorded summary names why the cycle died.
func storeFailure(err error) error {
	return fmt.Errorf("%s: %w", types.ErrStoreUnavailable, err)
}

// extractionFailure builds the failure row recorded when the extraction call
// for one persisted capture fails. The capture keeps no entities; the next
// cycle's fresh capture for the pair gets a fresh extraction attempt.
func extractionFailure(capture *types.Capture, words map[string]*types.Word, providers map[string]*types.Provider, err error) types.PairFailure {
	f := types.PairFailure{
		WordID:     capture.WordID,
		ProviderID: capture.ProviderID,
		Class:      types.ErrExtraction,
		Attempts:   1,
		Message:    err.Error(),
	}
	if w := words[capture.WordID]; w != nil {
		f.WordName = w.Name
	}
	if p := providers[capture.ProviderID]; p != nil {
		f.ProviderName = p.Name
	}
	return f
}

// RunEvery runs a cycle immediately and then on every interval tick until
// ctx is canceled. In-flight provider calls finish or time out naturally on
// cancellation; persisted partial results remain valid.
func (c *Controller) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = c.cfg.RefreshInterval
	}

	for {
		if _, err := c.RunCycle(ctx); err != nil && !errors.Is(err, ErrCycleRunning) {
			fmt.Printf("cycle error: %v\n", err)
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return nil
		}
	}
}
