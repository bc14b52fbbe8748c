package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommentParent identifies the entity type a comment belongs to.
type CommentParent string

const (
	CommentParentTask    CommentParent = "task"
	CommentParentRequest CommentParent = "request"
)

// Comment belongs to exactly one task or request. IsInternal is write-once:
// internal comments never reach viewers without team access.
type Comment struct {
	ID         uuid.UUID     `json:"id"`
	ParentType CommentParent `json:"parent_type"`
	ParentID   uuid.UUID     `json:"parent_id"`
	AuthorID   uuid.UUID     `json:"author_id"`
	Body       string        `json:"body"`
	IsInternal bool          `json:"is_internal"`
	CreatedAt  time.Time     `json:"created_at"`
}

// CommentCreate represents comment creation data
type CommentCreate struct {
	Body       string `json:"body" validate:"required,max=8000"`
	IsInternal bool   `json:"is_internal"`
}
