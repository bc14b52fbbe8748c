package handler

import (
	"net/http"
	"strings"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/api/resource"
	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// includeSet parses the ?include query parameter into a lookup set.
func includeSet(r *http.Request) map[string]bool {
	raw := r.URL.Query().Get("include")
	if raw == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			set[part] = true
		}
	}
	return set
}

// Create creates a project; the creator becomes its first manager
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ProjectCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	project, err := h.projectService.Create(r.Context(), actor, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, resource.NewProject(project))
}

// List returns the projects visible to the caller
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	projects, err := h.projectService.List(r.Context(), actor)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewProjectList(projects))
}

// Get returns a project. Relations load only when asked for via ?include.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}

	project, err := h.projectService.GetByID(r.Context(), projectID)
	if err != nil {
		serviceError(w, err)
		return
	}

	res := resource.NewProject(project)
	include := includeSet(r)

	if include["members"] {
		members, err := h.projectService.ListMembers(r.Context(), projectID)
		if err != nil {
			serviceError(w, err)
			return
		}
		res.WithMembers(members)
	}
	if include["tasks_count"] {
		count, err := h.projectService.CountTasks(r.Context(), projectID)
		if err != nil {
			serviceError(w, err)
			return
		}
		res.WithTasksCount(count)
	}

	response.OK(w, res)
}

// Update patches a project
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}

	var input domain.ProjectUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	project, err := h.projectService.Update(r.Context(), actor, projectID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewProject(project))
}

// Delete removes a project
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}

	if err := h.projectService.Delete(r.Context(), actor, projectID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}

// ListMembers returns the project's membership list
func (h *ProjectHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}

	members, err := h.projectService.ListMembers(r.Context(), projectID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewProjectMemberList(members))
}

// AddMember grants a user membership in the project
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}

	var input domain.ProjectMemberAdd
	if !decodeAndValidate(w, r, &input) {
		return
	}

	if err := h.projectService.AddMember(r.Context(), actor, projectID, input); err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, map[string]any{
		"project_id": projectID,
		"user_id":    input.UserID,
	})
}

// RemoveMember revokes a user's membership
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}
	userID, ok := urlUUID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(r.Context(), actor, projectID, userID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}
