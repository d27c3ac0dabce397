package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/serpscope/serpscope/internal/llm"
	"github.com/serpscope/serpscope/internal/storage"
	"github.com/serpscope/serpscope/internal/types"
)

// Entity-list guard rails. The extraction provider is asked for a bare
// comma-separated list, but free-text parsing stays defensive: short tokens
// are noise and runaway lists are capped.
const (
	minEntityNameLen      = 3
	maxEntitiesPerCapture = 10
)

// Extractor runs the extraction pass over newly persisted captures. One
// designated provider handles extraction for every capture, independent of
// which provider produced the capture.
type Extractor struct {
	client llm.Client
	store  storage.Storage
}

// NewExtractor creates an extractor using the designated extraction client
func NewExtractor(client llm.Client, store storage.Storage) *Extractor {
	return &Extractor{client: client, store: store}
}

// ExtractCapture asks the extraction provider for the entity names in one
// capture's text and persists them. A failed call leaves the capture without
// entities; it is never retried against this capture (a future cycle's new
// capture for the pair gets a fresh extraction attempt).
func (e *Extractor) ExtractCapture(ctx context.Context, capture *types.Capture) ([]*types.Entity, error) {
	response, err := e.client.Complete(ctx, llm.ExtractionPrompt(capture.Content))
	if err != nil {
		return nil, fmt.Errorf("extraction call failed for capture %s: %w", capture.ID, err)
	}

	names := ParseEntityList(response)
	if len(names) == 0 {
		// No entities is a valid outcome, not an error
		return nil, nil
	}

	entities, err := e.store.InsertEntities(ctx, capture.ID, names)
	if err != nil {
		return nil, fmt.Errorf("failed to persist entities for capture %s: %w", capture.ID, err)
	}

	return entities, nil
}

// ParseEntityList parses the comma-separated entity list an extraction
// provider returns. Whitespace is trimmed, empty and too-short tokens are
// dropped, and the list is capped. Unexpected formatting degrades to fewer
// entities, never to an error.
func ParseEntityList(raw string) []string {
	var names []string
	for _, token := range strings.Split(raw, ",") {
		name := strings.TrimSpace(token)
		if name == "" || len(name) < minEntityNameLen {
			continue
		}
		names = append(names, name)
		if len(names) == maxEntitiesPerCapture {
			break
		}
	}
	return names
}
