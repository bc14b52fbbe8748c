package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/notify"
	"github.com/mandolon/rehome-platform-sub001/internal/policy"
)

// RequestRepository is the request persistence surface.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Request, error)
	Update(ctx context.Context, id uuid.UUID, update *domain.RequestUpdate) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RequestService handles request operations
type RequestService struct {
	requestRepo RequestRepository
	projectRepo ProjectRepository
	events      EventPublisher
}

// NewRequestService creates a new request service
func NewRequestService(requestRepo RequestRepository, projectRepo ProjectRepository, events EventPublisher) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		projectRepo: projectRepo,
		events:      events,
	}
}

// Create creates a new request inside a project
func (s *RequestService) Create(ctx context.Context, actor domain.Actor, projectID uuid.UUID, input domain.RequestCreate) (*domain.Request, error) {
	if input.AssigneeID != nil {
		isMember, err := s.projectRepo.IsMember(ctx, projectID, *input.AssigneeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check assignee membership: %w", err)
		}
		if !isMember {
			return nil, fmt.Errorf("%w: assignee is not a project member", ErrInvalidInput)
		}
	}

	now := time.Now()
	req := &domain.Request{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.RequestStatusOpen,
		CreatedBy:   actor.ID,
		AssigneeID:  input.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return req, nil
}

// getInProject loads a request and verifies it belongs to the scoped project.
func (s *RequestService) getInProject(ctx context.Context, projectID, requestID uuid.UUID) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if req == nil || req.ProjectID != projectID {
		return nil, ErrNotFound
	}
	return req, nil
}

// GetByID retrieves a request if the actor is one of its participants
func (s *RequestService) GetByID(ctx context.Context, actor domain.Actor, projectID, requestID uuid.UUID) (*domain.Request, error) {
	req, err := s.getInProject(ctx, projectID, requestID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewRequest(actor, req) {
		return nil, ErrForbidden
	}
	return req, nil
}

// ListByProject retrieves the project's requests visible to the actor.
// Non-participants are filtered out rather than rejected: the list endpoint
// answers "what can I see", not "show me everything".
func (s *RequestService) ListByProject(ctx context.Context, actor domain.Actor, projectID uuid.UUID) ([]domain.Request, error) {
	requests, err := s.requestRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	visible := requests[:0]
	for _, req := range requests {
		r := req
		if policy.CanViewRequest(actor, &r) {
			visible = append(visible, req)
		}
	}
	return visible, nil
}

// Update updates a request
func (s *RequestService) Update(ctx context.Context, actor domain.Actor, projectID, requestID uuid.UUID, input domain.RequestUpdate) (*domain.Request, error) {
	req, err := s.getInProject(ctx, projectID, requestID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyRequest(actor, req) {
		return nil, ErrForbidden
	}

	if input.AssigneeID != nil {
		isMember, err := s.projectRepo.IsMember(ctx, projectID, *input.AssigneeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check assignee membership: %w", err)
		}
		if !isMember {
			return nil, fmt.Errorf("%w: assignee is not a project member", ErrInvalidInput)
		}
	}

	if err := s.requestRepo.Update(ctx, requestID, &input); err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	return s.getInProject(ctx, projectID, requestID)
}

// UpdateStatus transitions a request's status, publishing exactly one
// status-change event after the mutation commits.
func (s *RequestService) UpdateStatus(ctx context.Context, actor domain.Actor, projectID, requestID uuid.UUID, statusStr string) (*domain.Request, error) {
	status, err := domain.ParseRequestStatus(statusStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	req, err := s.getInProject(ctx, projectID, requestID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyRequest(actor, req) {
		return nil, ErrForbidden
	}

	oldStatus := req.Status
	if oldStatus == status {
		return req, nil
	}

	if err := s.requestRepo.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	s.events.Publish(notify.StatusChange{
		Entity:     "request",
		EntityID:   req.ID,
		ProjectID:  req.ProjectID,
		Title:      req.Title,
		ActorID:    actor.ID,
		From:       string(oldStatus),
		To:         string(status),
		Recipients: interestedParties(req.CreatedBy, req.AssigneeID, actor.ID),
	})

	req.Status = status
	return req, nil
}

// Delete deletes a request
func (s *RequestService) Delete(ctx context.Context, actor domain.Actor, projectID, requestID uuid.UUID) error {
	req, err := s.getInProject(ctx, projectID, requestID)
	if err != nil {
		return err
	}
	if !policy.CanModifyRequest(actor, req) {
		return ErrForbidden
	}

	return s.requestRepo.Delete(ctx, requestID)
}
