package handler

import (
	"net/http"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/api/resource"
	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

// RequestHandler handles client request endpoints
type RequestHandler struct {
	requestService *service.RequestService
	commentService *service.CommentService
	userService    *service.UserService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *service.RequestService, commentService *service.CommentService, userService *service.UserService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		commentService: commentService,
		userService:    userService,
	}
}

// Create raises a request in the scoped project
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input domain.RequestCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	req, err := h.requestService.Create(r.Context(), actor, projectID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, resource.NewRequest(req))
}

// List returns the project's requests visible to the caller
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
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

	requests, err := h.requestService.ListByProject(r.Context(), actor, projectID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewRequestList(requests))
}

// Get returns a request. Relations load only when asked for via ?include.
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	requestID, ok := urlUUID(w, r, "requestID")
	if !ok {
		return
	}

	req, err := h.requestService.GetByID(r.Context(), actor, projectID, requestID)
	if err != nil {
		serviceError(w, err)
		return
	}

	res := resource.NewRequest(req)
	include := includeSet(r)

	if include["comments"] {
		comments, err := h.commentService.ListByParent(r.Context(), domain.CommentParentRequest, requestID)
		if err != nil {
			serviceError(w, err)
			return
		}
		res.WithComments(comments, actor.Role)
	}
	if include["creator"] {
		creator, err := h.userService.GetByID(r.Context(), req.CreatedBy)
		if err == nil {
			res.WithCreator(creator)
		}
	}

	response.OK(w, res)
}

// Update patches a request
func (h *RequestHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	requestID, ok := urlUUID(w, r, "requestID")
	if !ok {
		return
	}

	var input domain.RequestUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	req, err := h.requestService.Update(r.Context(), actor, projectID, requestID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewRequest(req))
}

// UpdateStatus transitions a request's status and notifies interested parties
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	requestID, ok := urlUUID(w, r, "requestID")
	if !ok {
		return
	}

	var input domain.RequestStatusUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	req, err := h.requestService.UpdateStatus(r.Context(), actor, projectID, requestID, input.Status)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewRequest(req))
}

// Delete removes a request
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	requestID, ok := urlUUID(w, r, "requestID")
	if !ok {
		return
	}

	if err := h.requestService.Delete(r.Context(), actor, projectID, requestID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}

// ListComments returns the request's comments, filtered for the caller
func (h *RequestHandler) ListComments(w http.ResponseWriter, r *http.Request) {
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
	requestID, ok := urlUUID(w, r, "requestID")
	if !ok {
		return
	}

	// visibility check rides on GetByID
	if _, err := h.requestService.GetByID(r.Context(), actor, projectID, requestID); err != nil {
		serviceError(w, err)
		return
	}

	comments, err := h.commentService.ListByParent(r.Context(), domain.CommentParentRequest, requestID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewCommentList(comments, actor.Role))
}

// CreateComment adds a comment to the request
func (h *RequestHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
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
	requestID, ok := urlUUID(w, r, "requestID")
	if !ok {
		return
	}

	if _, err := h.requestService.GetByID(r.Context(), actor, projectID, requestID); err != nil {
		serviceError(w, err)
		return
	}

	var input domain.CommentCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), actor, domain.CommentParentRequest, requestID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, resource.NewComment(comment))
}
