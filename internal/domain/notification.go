package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationEmailState tracks best-effort email delivery for a notification.
type NotificationEmailState string

const (
	EmailStatePending NotificationEmailState = "pending"
	EmailStateSent    NotificationEmailState = "sent"
	EmailStateFailed  NotificationEmailState = "failed"
)

// Notification types.
const (
	NotificationTaskStatusChanged    = "task.status_changed"
	NotificationRequestStatusChanged = "request.status_changed"
	NotificationTaskOverdue          = "task.overdue"
)

// Notification is an in-app notification row. Email delivery is tracked
// separately so the retry sweep can re-send without touching the in-app copy.
type Notification struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id"`
	Type          string                 `json:"type"`
	Payload       map[string]any         `json:"payload"`
	ReadAt        *time.Time             `json:"read_at,omitempty"`
	EmailState    NotificationEmailState `json:"-"`
	EmailAttempts int                    `json:"-"`
	CreatedAt     time.Time              `json:"created_at"`
}
