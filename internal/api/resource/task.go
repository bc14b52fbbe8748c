package resource

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// TaskResource is the API representation of a task. Relation fields are
// absent unless loaded.
type TaskResource struct {
	ID          uuid.UUID           `json:"id"`
	ProjectID   uuid.UUID           `json:"project_id"`
	ParentID    *uuid.UUID          `json:"parent_id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	Priority    string              `json:"priority"`
	AssigneeID  *uuid.UUID          `json:"assignee_id,omitempty"`
	CreatedBy   uuid.UUID           `json:"created_by"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Assignee    *UserResource       `json:"assignee,omitempty"`
	Comments    *[]*CommentResource `json:"comments,omitempty"`
}

// NewTask builds a TaskResource with no relations loaded.
func NewTask(t *domain.Task) *TaskResource {
	return &TaskResource{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		ParentID:    t.ParentID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssigneeID:  t.AssigneeID,
		CreatedBy:   t.CreatedBy,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTaskList builds resources for a slice of tasks.
func NewTaskList(tasks []domain.Task) []*TaskResource {
	out := make([]*TaskResource, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTask(&tasks[i]))
	}
	return out
}

// WithAssignee attaches the assignee to the task.
func (r *TaskResource) WithAssignee(u *domain.User) *TaskResource {
	r.Assignee = NewUser(u)
	return r
}

// WithComments attaches the comment list, filtered for the viewer.
func (r *TaskResource) WithComments(comments []domain.Comment, viewer domain.Role) *TaskResource {
	list := NewCommentList(comments, viewer)
	r.Comments = &list
	return r
}
