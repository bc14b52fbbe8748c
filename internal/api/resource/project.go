package resource

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// ProjectResource is the API representation of a project. Relation fields are
// pointers so they are absent from the payload unless explicitly loaded; a
// loaded-but-empty relation still serializes as [].
type ProjectResource struct {
	ID          uuid.UUID                 `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Status      string                    `json:"status"`
	Address     string                    `json:"address,omitempty"`
	StartDate   *time.Time                `json:"start_date,omitempty"`
	EndDate     *time.Time                `json:"end_date,omitempty"`
	CreatedBy   uuid.UUID                 `json:"created_by"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
	Members     *[]*ProjectMemberResource `json:"members,omitempty"`
	TasksCount  *int                      `json:"tasks_count,omitempty"`
}

// ProjectMemberResource is the API representation of a project membership.
type ProjectMemberResource struct {
	UserID    uuid.UUID     `json:"user_id"`
	Role      string        `json:"role"`
	User      *UserResource `json:"user,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewProject builds a ProjectResource with no relations loaded.
func NewProject(p *domain.Project) *ProjectResource {
	return &ProjectResource{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Address:     p.Address,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewProjectList builds resources for a slice of projects.
func NewProjectList(projects []domain.Project) []*ProjectResource {
	out := make([]*ProjectResource, 0, len(projects))
	for i := range projects {
		out = append(out, NewProject(&projects[i]))
	}
	return out
}

// WithMembers attaches the membership list to the project.
func (r *ProjectResource) WithMembers(members []domain.ProjectMember) *ProjectResource {
	list := NewProjectMemberList(members)
	r.Members = &list
	return r
}

// NewProjectMemberList builds resources for a slice of memberships.
func NewProjectMemberList(members []domain.ProjectMember) []*ProjectMemberResource {
	out := make([]*ProjectMemberResource, 0, len(members))
	for i := range members {
		out = append(out, NewProjectMember(&members[i]))
	}
	return out
}

// WithTasksCount attaches the task count to the project.
func (r *ProjectResource) WithTasksCount(n int) *ProjectResource {
	r.TasksCount = &n
	return r
}

// NewProjectMember builds a ProjectMemberResource from a domain membership.
func NewProjectMember(m *domain.ProjectMember) *ProjectMemberResource {
	return &ProjectMemberResource{
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}
