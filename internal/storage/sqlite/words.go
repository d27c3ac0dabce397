package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serpscope/serpscope/internal/types"
)

// CreateWord inserts a new tracked word
func (s *SQLiteStorage) CreateWord(ctx context.Context, w *types.Word) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid word: %w", err)
	}

	query := `
		INSERT INTO words (id, name, group_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	groupID := sql.NullString{String: w.GroupID, Valid: w.GroupID != ""}
	_, err := s.db.ExecContext(ctx, query,
		w.ID, w.Name, groupID, w.Status, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert word: %w", err)
	}

	return nil
}

// ListWords returns all non-deleted words, newest first
func (s *SQLiteStorage) ListWords(ctx context.Context) ([]*types.Word, error) {
	return s.queryWords(ctx, `
		SELECT id, name, group_id, status, created_at, updated_at, deleted_at
		FROM words
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`)
}

// ListActiveWords returns words eligible for capture. Only active,
// non-deleted words participate in a cycle; the due-selection policy
// performs no further status filtering.
func (s *SQLiteStorage) ListActiveWords(ctx context.Context) ([]*types.Word, error) {
	return s.queryWords(ctx, `
		SELECT id, name, group_id, status, created_at, updated_at, deleted_at
		FROM words
		WHERE status = 'active' AND deleted_at IS NULL
		ORDER BY id
	`)
}

func (s *SQLiteStorage) queryWords(ctx context.Context, query string) ([]*types.Word, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var words []*types.Word
	for rows.Next() {
		w := &types.Word{}
		var groupID sql.NullString
		var deletedAt sql.NullTime
		if err := rows.Scan(&w.ID, &w.Name, &groupID, &w.Status,
			&w.CreatedAt, &w.UpdatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		if groupID.Valid {
			w.GroupID = groupID.String
		}
		if deletedAt.Valid {
			t := deletedAt.Time
			w.DeletedAt = &t
		}
		words = append(words, w)
	}

	return words, rows.Err()
}

// GetOrCreateGroup returns the group with the given name, creating it if needed
func (s *SQLiteStorage) GetOrCreateGroup(ctx context.Context, name string) (*types.WordGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}

	g := &types.WordGroup{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM word_groups WHERE name = ?`, name).
		Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err == nil {
		return g, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query group: %w", err)
	}

	g = &types.WordGroup{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO word_groups (id, name, created_at) VALUES (?, ?, ?)`,
		g.ID, g.Name, g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert group: %w", err)
	}

	return g, nil
}
