package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serpscope/serpscope/internal/types"
)

func TestLatestCycleEmpty(t *testing.T) {
	store := newTestStorage(t)

	sum, err := store.LatestCycle(context.Background())
	if err != nil {
		t.Fatalf("LatestCycle failed: %v", err)
	}
	if sum != nil {
		t.Errorf("Expected nil before any cycle has run, got %+v", sum)
	}
}

func TestRecordCycleRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	sum := &types.CycleSummary{
		CycleID:           uuid.New().String(),
		State:             types.CycleCompleted,
		PairsDue:          18,
		PairsCaptured:     15,
		PairsFailed:       3,
		EntitiesExtracted: 30,
		MentionsAnalyzed:  5,
		StartedAt:         started,
		FinishedAt:        started.Add(42 * time.Second),
		Failures: []types.PairFailure{
			{
				WordID: "w1", WordName: "crm", ProviderID: "p6", ProviderName: "flaky",
				Class: types.ErrTimeout, Attempts: 3, Message: "deadline exceeded",
			},
			{
				WordID: "w2", WordName: "vpn", ProviderID: "p6", ProviderName: "flaky",
				Class: types.ErrTimeout, Attempts: 3, Message: "deadline exceeded",
			},
		},
	}
	if err := store.RecordCycle(ctx, sum); err != nil {
		t.Fatalf("RecordCycle failed: %v", err)
	}

	got, err := store.LatestCycle(ctx)
	if err != nil {
		t.Fatalf("LatestCycle failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected a recorded cycle")
	}
	if got.CycleID != sum.CycleID || got.State != types.CycleCompleted {
		t.Errorf("Cycle identity did not round trip: %+v", got)
	}
	if got.PairsDue != 18 || got.PairsCaptured != 15 || got.PairsFailed != 3 ||
		got.EntitiesExtracted != 30 || got.MentionsAnalyzed != 5 {
		t.Errorf("Cycle counters did not round trip: %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("Expected start time %v, got %v", started, got.StartedAt)
	}
	if got.Duration() != 42*time.Second {
		t.Errorf("Expected 42s duration, got %v", got.Duration())
	}
	if len(got.Failures) != 2 {
		t.Fatalf("Expected 2 failure rows, got %d", len(got.Failures))
	}
	f := got.Failures[0]
	if f.WordName != "crm" || f.ProviderName != "flaky" ||
		f.Class != types.ErrTimeout || f.Attempts != 3 {
		t.Errorf("Failure did not round trip: %+v", f)
	}
}

// TestLatestCyclePicksNewest verifies history ordering by start time
func TestLatestCyclePicksNewest(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	older := &types.CycleSummary{
		CycleID: uuid.New().String(), State: types.CycleFailed,
		Error: "store went away", StartedAt: base, FinishedAt: base.Add(time.Second),
	}
	newer := &types.CycleSummary{
		CycleID: uuid.New().String(), State: types.CycleCompleted,
		StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + time.Second),
	}
	// Insert out of order; start time decides, not insert order
	if err := store.RecordCycle(ctx, newer); err != nil {
		t.Fatalf("RecordCycle failed: %v", err)
	}
	if err := store.RecordCycle(ctx, older); err != nil {
		t.Fatalf("RecordCycle failed: %v", err)
	}

	got, err := store.LatestCycle(ctx)
	if err != nil {
		t.Fatalf("LatestCycle failed: %v", err)
	}
	if got.CycleID != newer.CycleID {
		t.Errorf("Expected the newest cycle, got %s", got.CycleID)
	}
}

func TestRecordCycleRequiresID(t *testing.T) {
	store := newTestStorage(t)
	if err := store.RecordCycle(context.Background(), &types.CycleSummary{}); err == nil {
		t.Error("Expected an error for a cycle without an ID")
	}
}
