package handler

import (
	"net/http"
	"strconv"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/api/resource"
	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	notifications, err := h.notificationService.ListOwn(r.Context(), actor, limit)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewNotificationList(notifications))
}

// MarkRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	notificationID, ok := urlUUID(w, r, "notificationID")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), actor, notificationID); err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "read"})
}
