package resource

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// RequestResource is the API representation of a request. Relation fields are
// absent unless loaded.
type RequestResource struct {
	ID          uuid.UUID           `json:"id"`
	ProjectID   uuid.UUID           `json:"project_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	CreatedBy   uuid.UUID           `json:"created_by"`
	AssigneeID  *uuid.UUID          `json:"assignee_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Creator     *UserResource       `json:"creator,omitempty"`
	Comments    *[]*CommentResource `json:"comments,omitempty"`
}

// NewRequest builds a RequestResource with no relations loaded.
func NewRequest(req *domain.Request) *RequestResource {
	return &RequestResource{
		ID:          req.ID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      string(req.Status),
		CreatedBy:   req.CreatedBy,
		AssigneeID:  req.AssigneeID,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
}

// NewRequestList builds resources for a slice of requests.
func NewRequestList(requests []domain.Request) []*RequestResource {
	out := make([]*RequestResource, 0, len(requests))
	for i := range requests {
		out = append(out, NewRequest(&requests[i]))
	}
	return out
}

// WithCreator attaches the creator to the request.
func (r *RequestResource) WithCreator(u *domain.User) *RequestResource {
	r.Creator = NewUser(u)
	return r
}

// WithComments attaches the comment list, filtered for the viewer.
func (r *RequestResource) WithComments(comments []domain.Comment, viewer domain.Role) *RequestResource {
	list := NewCommentList(comments, viewer)
	r.Comments = &list
	return r
}
