// Package storage defines the persistence boundary for words, providers,
// captures, and extracted entities. The worker holds only transient in-memory
// working sets per cycle; everything durable lives behind this interface.
package storage

import (
	"context"
	"time"

	"github.com/serpscope/serpscope/internal/storage/sqlite"
	"github.com/serpscope/serpscope/internal/types"
)

// Storage is the capture store consumed by the refresh worker and the CLI.
// Captures and entities are append-only: there are deliberately no update or
// delete operations for them.
type Storage interface {
	// Words (read path for the worker; writes serve the seed CLI)
	CreateWord(ctx context.Context, w *types.Word) error
	ListWords(ctx context.Context) ([]*types.Word, error)
	ListActiveWords(ctx context.Context) ([]*types.Word, error)

	// Word groups
	GetOrCreateGroup(ctx context.Context, name string) (*types.WordGroup, error)

	// Providers
	CreateProvider(ctx context.Context, p *types.Provider) error
	ListProviders(ctx context.Context) ([]*types.Provider, error)
	ListActiveProviders(ctx context.Context) ([]*types.Provider, error)

	// Captures
	InsertCapture(ctx context.Context, c *types.Capture) error
	MostRecentCaptureTime(ctx context.Context, wordID, providerID string) (*time.Time, error)
	CountCaptures(ctx context.Context) (int, error)

	// Entities
	InsertEntities(ctx context.Context, captureID string, names []string) ([]*types.Entity, error)
	ListEntities(ctx context.Context, captureID string) ([]*types.Entity, error)

	// Brand projects (read path for mention analysis; writes serve tests/seeding)
	CreateBrandProject(ctx context.Context, p *types.BrandProject) error
	AddCompetitor(ctx context.Context, c *types.Competitor) error
	ProjectForGroup(ctx context.Context, groupID string) (*types.BrandProject, error)
	ListCompetitors(ctx context.Context, projectID string) ([]*types.Competitor, error)
	InsertMention(ctx context.Context, m *types.Mention) error
	ListMentions(ctx context.Context, captureID string) ([]*types.Mention, error)

	// Cycle history
	RecordCycle(ctx context.Context, sum *types.CycleSummary) error
	LatestCycle(ctx context.Context) (*types.CycleSummary, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path.
	// Default: ".serpscope/serpscope.db"
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".serpscope/serpscope.db",
	}
}

// NewStorage creates a new SQLite storage backend.
// The ctx parameter is currently unused but kept for API consistency.
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".serpscope/serpscope.db"
	}
	return sqlite.New(cfg.Path)
}
