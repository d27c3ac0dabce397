package sqlite

import (
	"context"
	"fmt"

	"github.com/serpscope/serpscope/internal/types"
)

// CreateProvider inserts a new LLM provider
func (s *SQLiteStorage) CreateProvider(ctx context.Context, p *types.Provider) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid provider: %w", err)
	}

	query := `
		INSERT INTO providers (id, name, kind, endpoint, model, api_key_env, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Kind, p.Endpoint, p.Model, p.APIKeyEnv, boolToInt(p.Active), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert provider: %w", err)
	}

	return nil
}

// ListProviders returns all providers
func (s *SQLiteStorage) ListProviders(ctx context.Context) ([]*types.Provider, error) {
	return s.queryProviders(ctx, `
		SELECT id, name, kind, endpoint, model, api_key_env, active, created_at
		FROM providers
		ORDER BY name
	`)
}

// ListActiveProviders returns providers that participate in a cycle
func (s *SQLiteStorage) ListActiveProviders(ctx context.Context) ([]*types.Provider, error) {
	return s.queryProviders(ctx, `
		SELECT id, name, kind, endpoint, model, api_key_env, active, created_at
		FROM providers
		WHERE active = 1
		ORDER BY id
	`)
}

func (s *SQLiteStorage) queryProviders(ctx context.Context, query string) ([]*types.Provider, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()

	var providers []*types.Provider
	for rows.Next() {
		p := &types.Provider{}
		var active int
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Endpoint, &p.Model,
			&p.APIKeyEnv, &active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		p.Active = active != 0
		providers = append(providers, p)
	}

	return providers, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
