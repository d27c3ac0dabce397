package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serpscope/serpscope/internal/types"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testWord(name string) *types.Word {
	now := time.Now().UTC()
	return &types.Word{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    types.WordActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testProvider(name string) *types.Provider {
	return &types.Provider{
		ID:        uuid.New().String(),
		Name:      name,
		Kind:      types.KindOpenAI,
		APIKeyEnv: "TEST_KEY",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
}

// TestNewCreatesParentDirs verifies the database path's directories are
// created on open
func TestNewCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "serpscope.db")
	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected database file at %s: %v", path, err)
	}
}

func TestWordRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	w := testWord("best crm")
	if err := store.CreateWord(ctx, w); err != nil {
		t.Fatalf("CreateWord failed: %v", err)
	}

	words, err := store.ListWords(ctx)
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("Expected 1 word, got %d", len(words))
	}
	got := words[0]
	if got.ID != w.ID || got.Name != "best crm" || got.Status != types.WordActive {
		t.Errorf("Word did not round trip: %+v", got)
	}
	if got.GroupID != "" {
		t.Errorf("Expected empty group for ungrouped word, got %q", got.GroupID)
	}
}

func TestCreateWordValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	if err := store.CreateWord(ctx, &types.Word{ID: "x", Status: types.WordActive}); err == nil {
		t.Error("Expected an error for a word without a name")
	}
	if err := store.CreateWord(ctx, &types.Word{ID: "x", Name: "y", Status: "bogus"}); err == nil {
		t.Error("Expected an error for an invalid status")
	}
}

// TestListActiveWords verifies inactive words are retained but excluded from
// the capture-eligible set
func TestListActiveWords(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	active := testWord("active word")
	if err := store.CreateWord(ctx, active); err != nil {
		t.Fatalf("CreateWord failed: %v", err)
	}
	inactive := testWord("inactive word")
	inactive.Status = types.WordInactive
	if err := store.CreateWord(ctx, inactive); err != nil {
		t.Fatalf("CreateWord failed: %v", err)
	}

	all, err := store.ListWords(ctx)
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 words total, got %d", len(all))
	}

	eligible, err := store.ListActiveWords(ctx)
	if err != nil {
		t.Fatalf("ListActiveWords failed: %v", err)
	}
	if len(eligible) != 1 || eligible[0].ID != active.ID {
		t.Errorf("Expected only the active word, got %d words", len(eligible))
	}
}

// TestGetOrCreateGroup verifies the same name always resolves to one group
func TestGetOrCreateGroup(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first, err := store.GetOrCreateGroup(ctx, "acme tracking")
	if err != nil {
		t.Fatalf("GetOrCreateGroup failed: %v", err)
	}
	second, err := store.GetOrCreateGroup(ctx, "acme tracking")
	if err != nil {
		t.Fatalf("GetOrCreateGroup failed on existing group: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected the same group, got %s and %s", first.ID, second.ID)
	}

	other, err := store.GetOrCreateGroup(ctx, "different")
	if err != nil {
		t.Fatalf("GetOrCreateGroup failed: %v", err)
	}
	if other.ID == first.ID {
		t.Error("Different names must map to different groups")
	}

	if _, err := store.GetOrCreateGroup(ctx, ""); err == nil {
		t.Error("Expected an error for an empty group name")
	}
}

func TestProviderRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	p := testProvider("openai")
	p.Endpoint = "https://example.com/v1/chat"
	p.Model = "gpt-4o-mini"
	if err := store.CreateProvider(ctx, p); err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}

	providers, err := store.ListProviders(ctx)
	if err != nil {
		t.Fatalf("ListProviders failed: %v", err)
	}
	if len(providers) != 1 {
		t.Fatalf("Expected 1 provider, got %d", len(providers))
	}
	got := providers[0]
	if got.ID != p.ID || got.Kind != types.KindOpenAI || got.Endpoint != p.Endpoint ||
		got.Model != p.Model || got.APIKeyEnv != "TEST_KEY" || !got.Active {
		t.Errorf("Provider did not round trip: %+v", got)
	}
}

func TestListActiveProviders(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	enabled := testProvider("enabled")
	if err := store.CreateProvider(ctx, enabled); err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}
	disabled := testProvider("disabled")
	disabled.Active = false
	if err := store.CreateProvider(ctx, disabled); err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}

	active, err := store.ListActiveProviders(ctx)
	if err != nil {
		t.Fatalf("ListActiveProviders failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != enabled.ID {
		t.Errorf("Expected only the enabled provider, got %d", len(active))
	}
}

func TestCreateProviderValidation(t *testing.T) {
	store := newTestStorage(t)
	p := testProvider("weird")
	p.Kind = "smoke-signals"
	if err := store.CreateProvider(context.Background(), p); err == nil {
		t.Error("Expected an error for an unknown provider kind")
	}
}
