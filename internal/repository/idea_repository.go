package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ideaforge-be/internal/common"
	"ideaforge-be/internal/entities"
)

// IdeaRepository defines the interface for generated idea batch operations.
// Batches are immutable once inserted.
type IdeaRepository interface {
	Create(ctx context.Context, userID, niche string, ideas []entities.Idea, webSearchUsed bool) (*entities.BusinessIdea, error)
	FindByUserID(ctx context.Context, userID string, limit int) ([]*entities.BusinessIdea, error)
	FindByID(ctx context.Context, id string) (*entities.BusinessIdea, error)
}

type ideaRepository struct {
	db DBTX
}

// NewIdeaRepository creates a new idea repository
func NewIdeaRepository(db DBTX) IdeaRepository {
	return &ideaRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusinessIdea(row rowScanner) (*entities.BusinessIdea, error) {
	var (
		b   entities.BusinessIdea
		raw []byte
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Niche, &raw, &b.WebSearchUsed, &b.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &b.Ideas); err != nil {
		return nil, fmt.Errorf("failed to decode ideas: %w", err)
	}
	return &b, nil
}

// Create inserts a batch, storing the ideas as JSON
func (r *ideaRepository) Create(ctx context.Context, userID, niche string, ideas []entities.Idea, webSearchUsed bool) (*entities.BusinessIdea, error) {
	data, err := json.Marshal(ideas)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ideas: %w", err)
	}

	query := `
		INSERT INTO business_ideas (user_id, niche, ideas, web_search_used)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, niche, ideas, web_search_used, created_at
	`

	// jsonb is passed as text: lib/pq would send []byte as bytea
	b, err := scanBusinessIdea(r.db.QueryRowContext(ctx, query, userID, niche, string(data), webSearchUsed))
	if err != nil {
		return nil, fmt.Errorf("failed to create business idea: %w", err)
	}

	return b, nil
}

// FindByUserID returns the user's batches, newest first
func (r *ideaRepository) FindByUserID(ctx context.Context, userID string, limit int) ([]*entities.BusinessIdea, error) {
	query := `
		SELECT id, user_id, niche, ideas, web_search_used, created_at
		FROM business_ideas
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get business ideas: %w", err)
	}
	defer rows.Close()

	batches := make([]*entities.BusinessIdea, 0)
	for rows.Next() {
		b, err := scanBusinessIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business idea: %w", err)
		}
		batches = append(batches, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating business ideas: %w", err)
	}

	return batches, nil
}

// FindByID finds a batch by its UUID
func (r *ideaRepository) FindByID(ctx context.Context, id string) (*entities.BusinessIdea, error) {
	query := `
		SELECT id, user_id, niche, ideas, web_search_used, created_at
		FROM business_ideas
		WHERE id = $1
	`

	b, err := scanBusinessIdea(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find business idea: %w", err)
	}

	return b, nil
}
