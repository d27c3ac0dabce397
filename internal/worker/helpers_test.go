package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serpscope/serpscope/internal/storage"
	"github.com/serpscope/serpscope/internal/storage/sqlite"
	"github.com/serpscope/serpscope/internal/types"
)

// newTestStore opens a real SQLite store in a temp directory. Worker tests
// run against the actual storage backend rather than a mock so persistence
// semantics (append-only captures, transactional entity writes) are exercised.
func newTestStore(t *testing.T) storage.Storage {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// seedWord inserts an active word and returns it
func seedWord(t *testing.T, store storage.Storage, name string) *types.Word {
	t.Helper()
	w := &types.Word{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    types.WordActive,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := store.CreateWord(context.Background(), w); err != nil {
		t.Fatalf("Failed to seed word %q: %v", name, err)
	}
	return w
}

// seedProvider inserts an active provider and returns it
func seedProvider(t *testing.T, store storage.Storage, name string) *types.Provider {
	t.Helper()
	p := &types.Provider{
		ID:        uuid.New().String(),
		Name:      name,
		Kind:      types.KindOpenAI,
		APIKeyEnv: "TEST_API_KEY",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateProvider(context.Background(), p); err != nil {
		t.Fatalf("Failed to seed provider %q: %v", name, err)
	}
	return p
}

// seedCapture inserts a capture for a (word, provider) pair
func seedCapture(t *testing.T, store storage.Storage, wordID, providerID, content string) *types.Capture {
	t.Helper()
	c := &types.Capture{
		ID:         uuid.New().String(),
		WordID:     wordID,
		ProviderID: providerID,
		Content:    content,
		CapturedAt: time.Now().UTC(),
	}
	if err := store.InsertCapture(context.Background(), c); err != nil {
		t.Fatalf("Failed to seed capture: %v", err)
	}
	return c
}

// fakeClient is a scriptable llm.Client for scheduler and controller tests
type fakeClient struct {
	name string
	fn   func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	return f.fn(ctx, prompt)
}

// fastRetry keeps retry tests quick without changing the policy shape
func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}
