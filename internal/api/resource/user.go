package resource

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// UserResource is the API representation of a user.
type UserResource struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"role_label"`
	TeamType  string    `json:"team_type,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser builds a UserResource from a domain user.
func NewUser(u *domain.User) *UserResource {
	return &UserResource{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		RoleLabel: u.Role.Label(),
		TeamType:  u.TeamType,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserList builds resources for a slice of users.
func NewUserList(users []domain.User) []*UserResource {
	out := make([]*UserResource, 0, len(users))
	for i := range users {
		out = append(out, NewUser(&users[i]))
	}
	return out
}
