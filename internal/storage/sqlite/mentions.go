package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/serpscope/serpscope/internal/types"
)

// CreateBrandProject inserts a brand monitoring project
func (s *SQLiteStorage) CreateBrandProject(ctx context.Context, p *types.BrandProject) error {
	if p.ID == "" || p.BrandName == "" || p.GroupID == "" {
		return fmt.Errorf("brand project requires id, brand name, and group")
	}

	query := `
		INSERT INTO brand_projects (id, name, brand_name, group_id, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.BrandName, p.GroupID, boolToInt(p.Active), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert brand project: %w", err)
	}

	return nil
}

// AddCompetitor inserts a competitor into a brand project
func (s *SQLiteStorage) AddCompetitor(ctx context.Context, c *types.Competitor) error {
	if c.ID == "" || c.ProjectID == "" || c.Name == "" {
		return fmt.Errorf("competitor requires id, project, and name")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO competitors (id, project_id, name, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.ProjectID, c.Name, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert competitor: %w", err)
	}

	return nil
}

// ProjectForGroup returns the active brand project attached to a word group,
// or nil when the group has none (most groups are not brand projects).
func (s *SQLiteStorage) ProjectForGroup(ctx context.Context, groupID string) (*types.BrandProject, error) {
	query := `
		SELECT id, name, brand_name, group_id, active, created_at
		FROM brand_projects
		WHERE group_id = ? AND active = 1
		LIMIT 1
	`

	p := &types.BrandProject{}
	var active int
	err := s.db.QueryRowContext(ctx, query, groupID).
		Scan(&p.ID, &p.Name, &p.BrandName, &p.GroupID, &active, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query brand project: %w", err)
	}
	p.Active = active != 0

	return p, nil
}

// ListCompetitors returns the competitors tracked by a brand project
func (s *SQLiteStorage) ListCompetitors(ctx context.Context, projectID string) ([]*types.Competitor, error) {
	query := `
		SELECT id, project_id, name, created_at
		FROM competitors
		WHERE project_id = ?
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitors: %w", err)
	}
	defer rows.Close()

	var competitors []*types.Competitor
	for rows.Next() {
		c := &types.Competitor{}
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		competitors = append(competitors, c)
	}

	return competitors, rows.Err()
}

// InsertMention persists one brand-analysis verdict
func (s *SQLiteStorage) InsertMention(ctx context.Context, m *types.Mention) error {
	if m.ID == "" || m.CaptureID == "" || m.ProjectID == "" {
		return fmt.Errorf("mention requires id, capture, and project")
	}

	query := `
		INSERT INTO mentions (
			id, capture_id, project_id, brand_mentioned, competitor_mentioned,
			mentioned_competitor, brand_position, competitor_position, confidence, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	competitor := sql.NullString{String: m.MentionedCompetitor, Valid: m.MentionedCompetitor != ""}
	brandPos := sql.NullInt64{Int64: int64(m.BrandPosition), Valid: m.BrandPosition > 0}
	compPos := sql.NullInt64{Int64: int64(m.CompetitorPosition), Valid: m.CompetitorPosition > 0}

	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.CaptureID, m.ProjectID,
		boolToInt(m.BrandMentioned), boolToInt(m.CompetitorMentioned),
		competitor, brandPos, compPos, m.Confidence, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert mention: %w", err)
	}

	return nil
}

// ListMentions returns the brand-analysis verdicts recorded for one capture
func (s *SQLiteStorage) ListMentions(ctx context.Context, captureID string) ([]*types.Mention, error) {
	query := `
		SELECT id, capture_id, project_id, brand_mentioned, competitor_mentioned,
		       mentioned_competitor, brand_position, competitor_position, confidence, created_at
		FROM mentions
		WHERE capture_id = ?
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, captureID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentions: %w", err)
	}
	defer rows.Close()

	var mentions []*types.Mention
	for rows.Next() {
		m := &types.Mention{}
		var brandMentioned, competitorMentioned int
		var competitor sql.NullString
		var brandPos, compPos sql.NullInt64
		if err := rows.Scan(&m.ID, &m.CaptureID, &m.ProjectID,
			&brandMentioned, &competitorMentioned,
			&competitor, &brandPos, &compPos, &m.Confidence, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mention: %w", err)
		}
		m.BrandMentioned = brandMentioned != 0
		m.CompetitorMentioned = competitorMentioned != 0
		m.MentionedCompetitor = competitor.String
		m.BrandPosition = int(brandPos.Int64)
		m.CompetitorPosition = int(compPos.Int64)
		mentions = append(mentions, m)
	}

	return mentions, rows.Err()
}
