package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// NotificationRepository is the notification persistence surface used by the
// API side (the dispatcher has its own narrower view).
type NotificationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// NotificationService exposes a user's own notifications
type NotificationService struct {
	notificationRepo NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListOwn retrieves the caller's notifications, newest first
func (s *NotificationService) ListOwn(ctx context.Context, actor domain.Actor, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	notifications, err := s.notificationRepo.ListByUser(ctx, actor.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the caller's notifications as read. Marking an
// already-read notification is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if n == nil || n.UserID != actor.ID {
		return ErrNotFound
	}

	return s.notificationRepo.MarkRead(ctx, id, actor.ID)
}
