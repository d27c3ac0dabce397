// Package types defines the core domain types shared across serpscope:
// tracked words, LLM providers, captured responses, and extracted entities.
package types

import (
	"fmt"
	"time"
)

// WordStatus represents the lifecycle status of a tracked word
type WordStatus string

const (
	// WordActive means the word participates in refresh cycles
	WordActive WordStatus = "active"
	// WordInactive means the word is retained but never captured
	WordInactive WordStatus = "inactive"
)

// Word is a tracked keyword or phrase subject to periodic LLM querying.
// Words are mutated by the administrative surface; the worker only reads them.
type Word struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	GroupID   string     `json:"group_id,omitempty"` // empty = ungrouped
	Status    WordStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"` // soft delete; set by the CRUD surface
}

// Validate checks that the word is well-formed before insertion
func (w *Word) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("word ID is required")
	}
	if w.Name == "" {
		return fmt.Errorf("word name is required")
	}
	if w.Status != WordActive && w.Status != WordInactive {
		return fmt.Errorf("invalid word status: %s", w.Status)
	}
	return nil
}

// WordGroup is a named collection of words. Brand projects attach to a group.
type WordGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProviderKind identifies the wire protocol a provider speaks.
// Several providers (Grok, Mistral, Perplexity) expose OpenAI-compatible
// chat endpoints and share a kind-specific default endpoint but the same
// request framing.
type ProviderKind string

const (
	KindOpenAI     ProviderKind = "openai"
	KindGemini     ProviderKind = "gemini"
	KindAnthropic  ProviderKind = "anthropic"
	KindGrok       ProviderKind = "grok"
	KindMistral    ProviderKind = "mistral"
	KindPerplexity ProviderKind = "perplexity"
)

// Provider is an external LLM service queried for words.
// Credentials are referenced by environment variable name, never stored.
type Provider struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Kind      ProviderKind `json:"kind"`
	Endpoint  string       `json:"endpoint,omitempty"` // empty = kind default
	Model     string       `json:"model,omitempty"`    // empty = kind default
	APIKeyEnv string       `json:"api_key_env"`        // env var holding the API key
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"created_at"`
}

// Validate checks that the provider is well-formed before insertion
func (p *Provider) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("provider ID is required")
	}
	if p.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	switch p.Kind {
	case KindOpenAI, KindGemini, KindAnthropic, KindGrok, KindMistral, KindPerplexity:
	default:
		return fmt.Errorf("unknown provider kind: %s", p.Kind)
	}
	return nil
}

// Capture is one persisted raw response for a (word, provider) pair.
// Captures are append-only: never updated, never deleted by the worker.
type Capture struct {
	ID         string    `json:"id"`
	WordID     string    `json:"word_id"`
	ProviderID string    `json:"provider_id"`
	Content    string    `json:"content"`
	CapturedAt time.Time `json:"captured_at"`
}

// Entity is a company/brand/product name extracted from a single capture's
// text. An entity belongs to exactly one capture; duplicates across captures
// are expected and tolerated.
type Entity struct {
	ID        string    `json:"id"`
	CaptureID string    `json:"capture_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BrandProject monitors one brand across the captures of a word group.
type BrandProject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BrandName string    `json:"brand_name"`
	GroupID   string    `json:"group_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Competitor is a rival brand tracked within a brand project.
type Competitor struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Mention records the brand-analysis verdict for one (capture, project) pair.
// Positions are 1-10; zero means not mentioned / not determined.
type Mention struct {
	ID                  string    `json:"id"`
	CaptureID           string    `json:"capture_id"`
	ProjectID           string    `json:"project_id"`
	BrandMentioned      bool      `json:"brand_mentioned"`
	CompetitorMentioned bool      `json:"competitor_mentioned"`
	MentionedCompetitor string    `json:"mentioned_competitor,omitempty"`
	BrandPosition       int       `json:"brand_position,omitempty"`
	CompetitorPosition  int       `json:"competitor_position,omitempty"`
	Confidence          int       `json:"confidence"` // 0-100
	CreatedAt           time.Time `json:"created_at"`
}

// Pair is a (word, provider) combination eligible for capture this cycle.
type Pair struct {
	Word     *Word
	Provider *Provider
}

// PairKey identifies a (word, provider) pair in lookup maps.
type PairKey struct {
	WordID     string
	ProviderID string
}

// Key returns the pair's lookup key
func (p Pair) Key() PairKey {
	return PairKey{WordID: p.Word.ID, ProviderID: p.Provider.ID}
}
