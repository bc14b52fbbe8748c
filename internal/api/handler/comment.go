package handler

import (
	"net/http"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/api/resource"
	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

// CommentHandler handles the task comment endpoints mounted outside the
// project subtree. Access rides on task visibility: non-members get a 404
// from the task lookup.
type CommentHandler struct {
	commentService *service.CommentService
	taskService    *service.TaskService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService *service.CommentService, taskService *service.TaskService) *CommentHandler {
	return &CommentHandler{commentService: commentService, taskService: taskService}
}

// ListForTask returns a task's comments, filtered for the caller
func (h *CommentHandler) ListForTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	if _, err := h.taskService.GetForComments(r.Context(), actor, taskID); err != nil {
		serviceError(w, err)
		return
	}

	comments, err := h.commentService.ListByParent(r.Context(), domain.CommentParentTask, taskID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewCommentList(comments, actor.Role))
}

// CreateForTask adds a comment to a task
func (h *CommentHandler) CreateForTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	if _, err := h.taskService.GetForComments(r.Context(), actor, taskID); err != nil {
		serviceError(w, err)
		return
	}

	var input domain.CommentCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), actor, domain.CommentParentTask, taskID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, resource.NewComment(comment))
}

// Delete removes a comment
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	commentID, ok := urlUUID(w, r, "commentID")
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), actor, commentID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}
