package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

type fakeMembers struct {
	member map[uuid.UUID]bool
}

func (f *fakeMembers) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	return f.member[userID], nil
}

func scopedRouter(scope *middleware.ProjectScope) http.Handler {
	r := chi.NewRouter()
	r.With(scope.Require).Get("/projects/{projectID}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetProjectID(r.Context()); !ok {
			http.Error(w, "project id not bound", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestProjectScopeMemberPasses(t *testing.T) {
	member := domain.Actor{ID: uuid.New(), Role: domain.RoleClient}
	scope := middleware.NewProjectScope(&fakeMembers{member: map[uuid.UUID]bool{member.ID: true}})
	router := scopedRouter(scope)

	req := httptest.NewRequest(http.MethodGet, "/projects/"+uuid.New().String(), nil)
	req = req.WithContext(middleware.WithActor(req.Context(), member))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("member: got status %d, want 200", rec.Code)
	}
}

func TestProjectScopeNonMemberGets404(t *testing.T) {
	scope := middleware.NewProjectScope(&fakeMembers{member: map[uuid.UUID]bool{}})
	router := scopedRouter(scope)

	req := httptest.NewRequest(http.MethodGet, "/projects/"+uuid.New().String(), nil)
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{ID: uuid.New(), Role: domain.RoleTeamMember}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("non-member: got status %d, want 404", rec.Code)
	}
}

func TestProjectScopeAdminBypass(t *testing.T) {
	scope := middleware.NewProjectScope(&fakeMembers{member: map[uuid.UUID]bool{}})
	router := scopedRouter(scope)

	req := httptest.NewRequest(http.MethodGet, "/projects/"+uuid.New().String(), nil)
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("admin: got status %d, want 200", rec.Code)
	}
}

func TestProjectScopeInvalidID(t *testing.T) {
	scope := middleware.NewProjectScope(&fakeMembers{member: map[uuid.UUID]bool{}})
	router := scopedRouter(scope)

	req := httptest.NewRequest(http.MethodGet, "/projects/not-a-uuid", nil)
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid id: got status %d, want 400", rec.Code)
	}
}

func TestProjectScopeMissingActor(t *testing.T) {
	scope := middleware.NewProjectScope(&fakeMembers{member: map[uuid.UUID]bool{}})
	router := scopedRouter(scope)

	req := httptest.NewRequest(http.MethodGet, "/projects/"+uuid.New().String(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing actor: got status %d, want 401", rec.Code)
	}
}
