package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serpscope/serpscope/internal/types"
)

// InsertCapture persists one raw provider response. Captures are append-only;
// each insert is independent and carries its own identity, so concurrent
// completions from the fan-out scheduler never contend on a shared row.
func (s *SQLiteStorage) InsertCapture(ctx context.Context, c *types.Capture) error {
	if c.ID == "" {
		return fmt.Errorf("capture ID is required")
	}
	if c.Content == "" {
		return fmt.Errorf("capture content is required")
	}

	query := `
		INSERT INTO captures (id, word_id, provider_id, content, captured_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.WordID, c.ProviderID, c.Content, c.CapturedAt)
	if err != nil {
		return fmt.Errorf("failed to insert capture: %w", err)
	}

	return nil
}

// MostRecentCaptureTime returns the newest capture timestamp for a
// (word, provider) pair, or nil when the pair has never been captured.
func (s *SQLiteStorage) MostRecentCaptureTime(ctx context.Context, wordID, providerID string) (*time.Time, error) {
	query := `
		SELECT captured_at
		FROM captures
		WHERE word_id = ? AND provider_id = ?
		ORDER BY captured_at DESC
		LIMIT 1
	`

	var ts time.Time
	err := s.db.QueryRowContext(ctx, query, wordID, providerID).Scan(&ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query most recent capture: %w", err)
	}

	return &ts, nil
}

// CountCaptures returns the total number of captures
func (s *SQLiteStorage) CountCaptures(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM captures`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}
	return count, nil
}

// InsertEntities persists the entity names extracted from one capture.
// All rows share the capture reference; the insert is transactional so a
// capture either gains its full entity list or none of it.
func (s *SQLiteStorage) InsertEntities(ctx context.Context, captureID string, names []string) ([]*types.Entity, error) {
	if len(names) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	entities := make([]*types.Entity, 0, len(names))
	for _, name := range names {
		e := &types.Entity{
			ID:        uuid.New().String(),
			CaptureID: captureID,
			Name:      name,
			CreatedAt: now,
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entities (id, capture_id, name, created_at) VALUES (?, ?, ?, ?)`,
			e.ID, e.CaptureID, e.Name, e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert entity: %w", err)
		}
		entities = append(entities, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit entities: %w", err)
	}

	return entities, nil
}

// ListEntities returns the entities extracted from one capture
func (s *SQLiteStorage) ListEntities(ctx context.Context, captureID string) ([]*types.Entity, error) {
	query := `
		SELECT id, capture_id, name, created_at
		FROM entities
		WHERE capture_id = ?
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, captureID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var entities []*types.Entity
	for rows.Next() {
		e := &types.Entity{}
		if err := rows.Scan(&e.ID, &e.CaptureID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}

	return entities, rows.Err()
}
