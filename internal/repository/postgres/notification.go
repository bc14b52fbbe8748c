package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// NotificationRepository handles notification data access
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO notifications (id, user_id, type, payload, email_state, email_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Type,
		payload,
		string(n.EmailState),
		n.EmailAttempts,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	query := `
		SELECT id, user_id, type, payload, read_at, email_state, email_attempts, created_at
		FROM notifications
		WHERE id = $1
	`

	n, err := scanNotification(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return n, nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	var payloadJSON []byte
	var emailState string
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&payloadJSON,
		&n.ReadAt,
		&emailState,
		&n.EmailAttempts,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.EmailState = domain.NotificationEmailState(emailState)

	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &n.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	return &n, nil
}

// ListByUser retrieves notifications for a user, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, type, payload, read_at, email_state, email_attempts, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}

	return notifications, nil
}

// MarkRead sets the read timestamp of a notification owned by userID
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`

	_, err := r.db.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

// ListPendingEmail retrieves notifications with undelivered email, oldest first
func (r *NotificationRepository) ListPendingEmail(ctx context.Context, maxAttempts, limit int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, type, payload, read_at, email_state, email_attempts, created_at
		FROM notifications
		WHERE email_state = 'pending' AND email_attempts < $1
		ORDER BY created_at
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}

	return notifications, nil
}

// UpdateEmailState records the outcome of an email delivery attempt
func (r *NotificationRepository) UpdateEmailState(ctx context.Context, id uuid.UUID, state domain.NotificationEmailState, attempts int) error {
	query := `UPDATE notifications SET email_state = $2, email_attempts = $3 WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id, string(state), attempts)
	if err != nil {
		return fmt.Errorf("failed to update email state: %w", err)
	}

	return nil
}
