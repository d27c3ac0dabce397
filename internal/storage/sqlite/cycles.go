package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/serpscope/serpscope/internal/types"
)

// RecordCycle persists one cycle summary and its per-pair failures.
// Called once per run on both completed and failed outcomes.
func (s *SQLiteStorage) RecordCycle(ctx context.Context, sum *types.CycleSummary) error {
	if sum.CycleID == "" {
		return fmt.Errorf("cycle ID is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO cycles (
			id, state, pairs_due, pairs_captured, pairs_failed,
			entities_extracted, extraction_failures, mentions_analyzed,
			error, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		sum.CycleID, sum.State, sum.PairsDue, sum.PairsCaptured, sum.PairsFailed,
		sum.EntitiesExtracted, sum.ExtractionFailures, sum.MentionsAnalyzed,
		sum.Error, sum.StartedAt, sum.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cycle: %w", err)
	}

	for _, f := range sum.Failures {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cycle_failures (
				cycle_id, word_id, word_name, provider_id, provider_name,
				class, attempts, message
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, sum.CycleID, f.WordID, f.WordName, f.ProviderID, f.ProviderName,
			f.Class, f.Attempts, f.Message)
		if err != nil {
			return fmt.Errorf("failed to insert cycle failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cycle: %w", err)
	}

	return nil
}

// LatestCycle returns the most recent cycle summary with its failures,
// or nil when no cycle has run yet.
func (s *SQLiteStorage) LatestCycle(ctx context.Context) (*types.CycleSummary, error) {
	query := `
		SELECT id, state, pairs_due, pairs_captured, pairs_failed,
		       entities_extracted, extraction_failures, mentions_analyzed,
		       error, started_at, finished_at
		FROM cycles
		ORDER BY started_at DESC
		LIMIT 1
	`

	sum := &types.CycleSummary{}
	err := s.db.QueryRowContext(ctx, query).Scan(
		&sum.CycleID, &sum.State, &sum.PairsDue, &sum.PairsCaptured, &sum.PairsFailed,
		&sum.EntitiesExtracted, &sum.ExtractionFailures, &sum.MentionsAnalyzed,
		&sum.Error, &sum.StartedAt, &sum.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest cycle: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT word_id, word_name, provider_id, provider_name, class, attempts, message
		FROM cycle_failures
		WHERE cycle_id = ?
		ORDER BY id
	`, sum.CycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycle failures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f types.PairFailure
		if err := rows.Scan(&f.WordID, &f.WordName, &f.ProviderID, &f.ProviderName,
			&f.Class, &f.Attempts, &f.Message); err != nil {
			return nil, fmt.Errorf("failed to scan cycle failure: %w", err)
		}
		sum.Failures = append(sum.Failures, f)
	}

	return sum, rows.Err()
}
