package resource

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// NotificationResource is the API representation of a notification.
type NotificationResource struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewNotification builds a NotificationResource from a domain notification.
func NewNotification(n *domain.Notification) *NotificationResource {
	return &NotificationResource{
		ID:        n.ID,
		Type:      n.Type,
		Payload:   n.Payload,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// NewNotificationList builds resources for a slice of notifications.
func NewNotificationList(notifications []domain.Notification) []*NotificationResource {
	out := make([]*NotificationResource, 0, len(notifications))
	for i := range notifications {
		out = append(out, NewNotification(&notifications[i]))
	}
	return out
}
