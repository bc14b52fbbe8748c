package handler

import (
	"net/http"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/api/resource"
	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

// UserHandler handles user administration endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns all active users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewUserList(users))
}

// Get returns a single user
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "userID")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewUser(user))
}

// UpdateProfile updates the authenticated user's own profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.UserProfileUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), actor.ID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewUser(user))
}

// UpdateRole changes a user's platform role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "userID")
	if !ok {
		return
	}

	var input domain.UserRoleUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.userService.UpdateRole(r.Context(), userID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewUser(user))
}

// Deactivate soft-deletes a user
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.userService.Deactivate(r.Context(), userID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}
