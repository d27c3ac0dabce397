package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serpscope/serpscope/internal/llm"
	"github.com/serpscope/serpscope/internal/storage"
	"github.com/serpscope/serpscope/internal/types"
)

// Analyzer runs the brand-mention pass: for captures whose word belongs to a
// group with a brand project, it asks the extraction provider for a JSON
// verdict on brand and competitor visibility.
type Analyzer struct {
	client llm.Client
	store  storage.Storage
}

// NewAnalyzer creates a brand-mention analyzer
func NewAnalyzer(client llm.Client, store storage.Storage) *Analyzer {
	return &Analyzer{client: client, store: store}
}

// mentionVerdict is the JSON shape requested from the model
type mentionVerdict struct {
	BrandMentioned      bool   `json:"brand_mentioned"`
	CompetitorMentioned bool   `json:"competitor_mentioned"`
	MentionedCompetitor string `json:"mentioned_competitor"`
	BrandPosition       int    `json:"brand_position"`
	CompetitorPosition  int    `json:"competitor_position"`
	Confidence          int    `json:"confidence"`
}

// AnalyzeCapture produces a mention verdict for one capture if its word's
// group has a brand project. Returns (false, nil) when the capture is not
// part of any brand project. An unparseable model response degrades to a
// zero-confidence "no mention" verdict rather than an error; only call and
// store failures propagate.
func (a *Analyzer) AnalyzeCapture(ctx context.Context, capture *types.Capture, word *types.Word) (bool, error) {
	if word.GroupID == "" {
		return false, nil
	}

	project, err := a.store.ProjectForGroup(ctx, word.GroupID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve brand project: %w", err)
	}
	if project == nil {
		return false, nil
	}

	competitors, err := a.store.ListCompetitors(ctx, project.ID)
	if err != nil {
		return false, fmt.Errorf("failed to list competitors: %w", err)
	}
	names := make([]string, 0, len(competitors))
	for _, c := range competitors {
		names = append(names, c.Name)
	}

	response, err := a.client.Complete(ctx, llm.MentionPrompt(capture.Content, project.BrandName, names))
	if err != nil {
		return false, fmt.Errorf("mention analysis call failed for capture %s: %w", capture.ID, err)
	}

	var verdict mentionVerdict
	if err := llm.DecodeLoose(response, &verdict); err != nil {
		// Degrade to a recorded zero-confidence verdict; the raw capture is
		// already persisted and a later cycle gets a fresh chance.
		fmt.Printf("mention verdict for capture %s was unparseable, recording zero verdict: %v\n",
			capture.ID, err)
		verdict = mentionVerdict{}
	}

	mention := &types.Mention{
		ID:                  uuid.New().String(),
		CaptureID:           capture.ID,
		ProjectID:           project.ID,
		BrandMentioned:      verdict.BrandMentioned,
		CompetitorMentioned: verdict.CompetitorMentioned,
		MentionedCompetitor: verdict.MentionedCompetitor,
		BrandPosition:       clampPosition(verdict.BrandPosition),
		CompetitorPosition:  clampPosition(verdict.CompetitorPosition),
		Confidence:          clampConfidence(verdict.Confidence),
		CreatedAt:           time.Now().UTC(),
	}
	if err := a.store.InsertMention(ctx, mention); err != nil {
		return false, fmt.Errorf("failed to persist mention: %w", err)
	}

	return true, nil
}

// clampPosition keeps positions in 1-10; anything else means "not placed"
func clampPosition(p int) int {
	if p < 1 || p > 10 {
		return 0
	}
	return p
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
