package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the workflow status of a request.
type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "open"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusClosed     RequestStatus = "closed"
)

// ParseRequestStatus converts an external status string to a RequestStatus.
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case RequestStatusOpen, RequestStatusInProgress, RequestStatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown request status %q", s)
}

// Request is a trackable unit of work raised inside a project, typically by a
// client. Visibility is limited to its participants and admins.
type Request struct {
	ID          uuid.UUID     `json:"id"`
	ProjectID   uuid.UUID     `json:"project_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      RequestStatus `json:"status"`
	CreatedBy   uuid.UUID     `json:"created_by"`
	AssigneeID  *uuid.UUID    `json:"assignee_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// RequestCreate represents request creation data
type RequestCreate struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=4000"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
}

// RequestUpdate represents request update data
type RequestUpdate struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=4000"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
}

// RequestStatusUpdate represents a status transition request
type RequestStatusUpdate struct {
	Status string `json:"status" validate:"required"`
}
