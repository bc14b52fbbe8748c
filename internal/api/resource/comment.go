package resource

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// CommentResource is the API representation of a comment.
type CommentResource struct {
	ID         uuid.UUID     `json:"id"`
	AuthorID   uuid.UUID     `json:"author_id"`
	Author     *UserResource `json:"author,omitempty"`
	Body       string        `json:"body"`
	IsInternal bool          `json:"is_internal"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewComment builds a CommentResource from a domain comment.
func NewComment(c *domain.Comment) *CommentResource {
	return &CommentResource{
		ID:         c.ID,
		AuthorID:   c.AuthorID,
		Body:       c.Body,
		IsInternal: c.IsInternal,
		CreatedAt:  c.CreatedAt,
	}
}

// NewCommentList builds resources for a slice of comments, dropping internal
// comments when the viewer lacks team access. Filtering happens here so no
// handler can leak an internal comment by forgetting a check.
func NewCommentList(comments []domain.Comment, viewer domain.Role) []*CommentResource {
	out := make([]*CommentResource, 0, len(comments))
	for i := range comments {
		if comments[i].IsInternal && !viewer.HasTeamAccess() {
			continue
		}
		out = append(out, NewComment(&comments[i]))
	}
	return out
}

// WithAuthor attaches the author to the comment.
func (r *CommentResource) WithAuthor(u *domain.User) *CommentResource {
	r.Author = NewUser(u)
	return r
}
