package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithActor(role domain.Role) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	actor := domain.Actor{ID: uuid.New(), Email: "u@example.com", Role: role}
	return r.WithContext(middleware.WithActor(r.Context(), actor))
}

func TestRequireRoleMatrix(t *testing.T) {
	guard := middleware.RequireRole(domain.RoleAdmin, domain.RoleProjectManager)

	tests := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleAdmin, http.StatusOK},
		{domain.RoleProjectManager, http.StatusOK},
		{domain.RoleTeamMember, http.StatusForbidden},
		{domain.RoleClient, http.StatusForbidden},
		{domain.RoleArchitect, http.StatusForbidden},
		{domain.RoleContractor, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			rec := httptest.NewRecorder()
			guard(okHandler()).ServeHTTP(rec, requestWithActor(tt.role))
			if rec.Code != tt.want {
				t.Errorf("role %s: got status %d, want %d", tt.role, rec.Code, tt.want)
			}
		})
	}
}

func TestRequireRoleMissingActor(t *testing.T) {
	guard := middleware.RequireRole(domain.RoleAdmin)

	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}
}
