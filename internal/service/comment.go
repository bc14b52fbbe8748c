package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/policy"
)

// CommentRepository is the comment persistence surface.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByParent(ctx context.Context, parentType domain.CommentParent, parentID uuid.UUID) ([]domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentService handles comments on tasks and requests
type CommentService struct {
	commentRepo CommentRepository
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// Create creates a comment under a parent the caller has already been
// authorized to see. The internal flag is write-once and restricted to actors
// with team access.
func (s *CommentService) Create(ctx context.Context, actor domain.Actor, parentType domain.CommentParent, parentID uuid.UUID, input domain.CommentCreate) (*domain.Comment, error) {
	if input.IsInternal && !policy.CanViewInternalComment(actor) {
		return nil, ErrForbidden
	}

	comment := &domain.Comment{
		ID:         uuid.New(),
		ParentType: parentType,
		ParentID:   parentID,
		AuthorID:   actor.ID,
		Body:       input.Body,
		IsInternal: input.IsInternal,
		CreatedAt:  time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListByParent retrieves the ordered comments of a parent. Internal comments
// are included here; the serialization boundary strips them for viewers
// without internal visibility.
func (s *CommentService) ListByParent(ctx context.Context, parentType domain.CommentParent, parentID uuid.UUID) ([]domain.Comment, error) {
	return s.commentRepo.ListByParent(ctx, parentType, parentID)
}

// Delete deletes a comment (author or admin only)
func (s *CommentService) Delete(ctx context.Context, actor domain.Actor, commentID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return ErrNotFound
	}
	if !policy.CanDeleteComment(actor, comment) {
		return ErrForbidden
	}

	return s.commentRepo.Delete(ctx, commentID)
}
