package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// CommentRepository handles comment data access
type CommentRepository struct {
	db *DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (id, parent_type, parent_id, author_id, body, is_internal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		c.ID,
		string(c.ParentType),
		c.ParentID,
		c.AuthorID,
		c.Body,
		c.IsInternal,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `
		SELECT id, parent_type, parent_id, author_id, body, is_internal, created_at
		FROM comments
		WHERE id = $1
	`

	var c domain.Comment
	var parentType string
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&parentType,
		&c.ParentID,
		&c.AuthorID,
		&c.Body,
		&c.IsInternal,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	c.ParentType = domain.CommentParent(parentType)

	return &c, nil
}

// ListByParent retrieves all comments of a task or request, oldest first
func (r *CommentRepository) ListByParent(ctx context.Context, parentType domain.CommentParent, parentID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT id, parent_type, parent_id, author_id, body, is_internal, created_at
		FROM comments
		WHERE parent_type = $1 AND parent_id = $2
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, string(parentType), parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var pt string
		if err := rows.Scan(&c.ID, &pt, &c.ParentID, &c.AuthorID, &c.Body, &c.IsInternal, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.ParentType = domain.CommentParent(pt)
		comments = append(comments, c)
	}

	return comments, nil
}

// Delete deletes a comment
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}
