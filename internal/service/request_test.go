package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/notify"
)

func newRequestFixture() (projectID uuid.UUID, creator domain.Actor, req *domain.Request) {
	projectID = uuid.New()
	creator = domain.Actor{ID: uuid.New(), Role: domain.RoleClient}
	req = &domain.Request{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     "Change kitchen layout",
		Status:    domain.RequestStatusOpen,
		CreatedBy: creator.ID,
	}
	return
}

func TestRequestGetByIDCreatorAllowed(t *testing.T) {
	projectID, creator, req := newRequestFixture()

	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(requestRepo, new(MockProjectRepository), new(MockEventPublisher))

	requestRepo.On("GetByID", mock.Anything, req.ID).Return(req, nil)

	got, err := svc.GetByID(context.Background(), creator, projectID, req.ID)

	assert.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
}

func TestRequestGetByIDUnrelatedForbidden(t *testing.T) {
	projectID, _, req := newRequestFixture()

	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(requestRepo, new(MockProjectRepository), new(MockEventPublisher))

	requestRepo.On("GetByID", mock.Anything, req.ID).Return(req, nil)

	// member of the project but neither creator nor assignee
	unrelated := domain.Actor{ID: uuid.New(), Role: domain.RoleTeamMember}
	_, err := svc.GetByID(context.Background(), unrelated, projectID, req.ID)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRequestListFiltersInvisible(t *testing.T) {
	projectID, creator, _ := newRequestFixture()
	assigneeID := uuid.New()

	requests := []domain.Request{
		{ID: uuid.New(), ProjectID: projectID, CreatedBy: creator.ID},
		{ID: uuid.New(), ProjectID: projectID, CreatedBy: uuid.New()},
		{ID: uuid.New(), ProjectID: projectID, CreatedBy: uuid.New(), AssigneeID: &creator.ID},
		{ID: uuid.New(), ProjectID: projectID, CreatedBy: uuid.New(), AssigneeID: &assigneeID},
	}

	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(requestRepo, new(MockProjectRepository), new(MockEventPublisher))

	requestRepo.On("ListByProject", mock.Anything, projectID).Return(requests, nil)

	visible, err := svc.ListByProject(context.Background(), creator, projectID)

	assert.NoError(t, err)
	assert.Len(t, visible, 2)
	for _, r := range visible {
		owns := r.CreatedBy == creator.ID || (r.AssigneeID != nil && *r.AssigneeID == creator.ID)
		assert.True(t, owns, "request %s should not be visible", r.ID)
	}
}

func TestRequestListAdminSeesAll(t *testing.T) {
	projectID, _, req := newRequestFixture()

	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(requestRepo, new(MockProjectRepository), new(MockEventPublisher))

	requestRepo.On("ListByProject", mock.Anything, projectID).Return([]domain.Request{*req}, nil)

	admin := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
	visible, err := svc.ListByProject(context.Background(), admin, projectID)

	assert.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestRequestUpdateStatusPublishesEvent(t *testing.T) {
	projectID, creator, req := newRequestFixture()

	requestRepo := new(MockRequestRepository)
	events := new(MockEventPublisher)
	svc := NewRequestService(requestRepo, new(MockProjectRepository), events)

	requestRepo.On("GetByID", mock.Anything, req.ID).Return(req, nil)
	requestRepo.On("UpdateStatus", mock.Anything, req.ID, domain.RequestStatusClosed).Return(nil)
	events.On("Publish", mock.MatchedBy(func(ev notify.StatusChange) bool {
		return ev.Entity == "request" && ev.From == "open" && ev.To == "closed"
	})).Once()

	admin := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
	updated, err := svc.UpdateStatus(context.Background(), admin, projectID, req.ID, "closed")

	assert.NoError(t, err)
	assert.Equal(t, domain.RequestStatusClosed, updated.Status)
	events.AssertExpectations(t)

	ev := events.Calls[0].Arguments.Get(0).(notify.StatusChange)
	assert.Equal(t, []uuid.UUID{creator.ID}, ev.Recipients)
}

func TestRequestUpdateStatusUnknownStatus(t *testing.T) {
	projectID, creator, req := newRequestFixture()

	svc := NewRequestService(new(MockRequestRepository), new(MockProjectRepository), new(MockEventPublisher))

	_, err := svc.UpdateStatus(context.Background(), creator, projectID, req.ID, "resolved")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRequestDeleteForbiddenForUnrelated(t *testing.T) {
	projectID, _, req := newRequestFixture()

	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(requestRepo, new(MockProjectRepository), new(MockEventPublisher))

	requestRepo.On("GetByID", mock.Anything, req.ID).Return(req, nil)

	unrelated := domain.Actor{ID: uuid.New(), Role: domain.RoleArchitect}
	err := svc.Delete(context.Background(), unrelated, projectID, req.ID)

	assert.ErrorIs(t, err, ErrForbidden)
	requestRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRequestWrongProjectLooksLikeMissing(t *testing.T) {
	_, creator, req := newRequestFixture()

	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(requestRepo, new(MockProjectRepository), new(MockEventPublisher))

	requestRepo.On("GetByID", mock.Anything, req.ID).Return(req, nil)

	_, err := svc.GetByID(context.Background(), creator, uuid.New(), req.ID)

	assert.ErrorIs(t, err, ErrNotFound)
}
