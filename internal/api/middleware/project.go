package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
)

// MembershipChecker answers whether a user belongs to a project.
type MembershipChecker interface {
	IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

// ProjectScope verifies project membership before any scoped handler runs and
// binds the project ID into the request context. Non-members receive 404, not
// 403: a project a caller does not belong to does not exist for them. Admins
// bypass the membership check.
type ProjectScope struct {
	members MembershipChecker
}

// NewProjectScope creates a new project scope guard
func NewProjectScope(members MembershipChecker) *ProjectScope {
	return &ProjectScope{members: members}
}

// Require is the guard middleware for routes under /projects/{projectID}
func (g *ProjectScope) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectIDStr := chi.URLParam(r, "projectID")
		if projectIDStr == "" {
			response.BadRequest(w, "missing project ID")
			return
		}

		projectID, err := uuid.Parse(projectIDStr)
		if err != nil {
			response.BadRequest(w, "invalid project ID")
			return
		}

		actor, ok := GetActor(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}

		if !actor.Role.IsAdmin() {
			isMember, err := g.members.IsMember(r.Context(), projectID, actor.ID)
			if err != nil {
				response.InternalError(w, "failed to check project membership")
				return
			}
			if !isMember {
				response.NotFound(w, "project not found")
				return
			}
		}

		ctx := context.WithValue(r.Context(), ProjectIDKey, projectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
