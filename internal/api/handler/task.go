package handler

import (
	"net/http"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/api/resource"
	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	taskService    *service.TaskService
	commentService *service.CommentService
	userService    *service.UserService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService, commentService *service.CommentService, userService *service.UserService) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		commentService: commentService,
		userService:    userService,
	}
}

// Create creates a task in the scoped project
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input domain.TaskCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	task, err := h.taskService.Create(r.Context(), actor, projectID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, resource.NewTask(task))
}

// List returns the project's tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}

	tasks, err := h.taskService.ListByProject(r.Context(), projectID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewTaskList(tasks))
}

// Get returns a task. Relations load only when asked for via ?include.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(r.Context(), projectID, taskID)
	if err != nil {
		serviceError(w, err)
		return
	}

	res := resource.NewTask(task)
	include := includeSet(r)

	if include["comments"] {
		comments, err := h.commentService.ListByParent(r.Context(), domain.CommentParentTask, taskID)
		if err != nil {
			serviceError(w, err)
			return
		}
		res.WithComments(comments, actor.Role)
	}
	if include["assignee"] && task.AssigneeID != nil {
		assignee, err := h.userService.GetByID(r.Context(), *task.AssigneeID)
		if err == nil {
			res.WithAssignee(assignee)
		}
	}

	response.OK(w, res)
}

// Update patches a task
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	var input domain.TaskUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	task, err := h.taskService.Update(r.Context(), actor, projectID, taskID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewTask(task))
}

// UpdateStatus transitions a task's status and notifies interested parties
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	var input domain.TaskStatusUpdate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), actor, projectID, taskID, input.Status)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewTask(task))
}

// Delete removes a task
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), actor, projectID, taskID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}
