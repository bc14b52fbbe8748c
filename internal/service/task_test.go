package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/notify"
)

func newTaskFixture() (projectID uuid.UUID, creator, assignee, actor domain.Actor, task *domain.Task) {
	projectID = uuid.New()
	creator = domain.Actor{ID: uuid.New(), Role: domain.RoleClient}
	assignee = domain.Actor{ID: uuid.New(), Role: domain.RoleContractor}
	actor = domain.Actor{ID: uuid.New(), Role: domain.RoleTeamMember}
	assigneeID := assignee.ID
	task = &domain.Task{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Title:      "Frame the garage",
		Status:     domain.TaskStatusTodo,
		Priority:   domain.TaskPriorityMedium,
		CreatedBy:  creator.ID,
		AssigneeID: &assigneeID,
	}
	return
}

func TestTaskUpdateStatusCommitsThenPublishes(t *testing.T) {
	projectID, creator, assignee, actor, task := newTaskFixture()

	taskRepo := new(MockTaskRepository)
	projectRepo := new(MockProjectRepository)
	events := new(MockEventPublisher)
	svc := NewTaskService(taskRepo, projectRepo, events)

	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("UpdateStatus", mock.Anything, task.ID, domain.TaskStatusInProgress).Return(nil)
	events.On("Publish", mock.MatchedBy(func(ev notify.StatusChange) bool {
		return ev.Entity == "task" &&
			ev.EntityID == task.ID &&
			ev.From == "todo" &&
			ev.To == "in_progress" &&
			len(ev.Recipients) == 2
	})).Once()

	updated, err := svc.UpdateStatus(context.Background(), actor, projectID, task.ID, "in_progress")

	assert.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	taskRepo.AssertExpectations(t)
	events.AssertExpectations(t)

	// recipients are the creator and assignee, never the actor
	ev := events.Calls[0].Arguments.Get(0).(notify.StatusChange)
	assert.Contains(t, ev.Recipients, creator.ID)
	assert.Contains(t, ev.Recipients, assignee.ID)
	assert.NotContains(t, ev.Recipients, actor.ID)
}

func TestTaskUpdateStatusExcludesActorFromRecipients(t *testing.T) {
	projectID, creator, _, _, task := newTaskFixture()

	taskRepo := new(MockTaskRepository)
	events := new(MockEventPublisher)
	svc := NewTaskService(taskRepo, new(MockProjectRepository), events)

	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("UpdateStatus", mock.Anything, task.ID, domain.TaskStatusDone).Return(nil)
	events.On("Publish", mock.Anything).Once()

	// the assignee moves their own task; only the creator should hear about it
	assigneeActor := domain.Actor{ID: *task.AssigneeID, Role: domain.RoleContractor}
	_, err := svc.UpdateStatus(context.Background(), assigneeActor, projectID, task.ID, "done")

	assert.NoError(t, err)
	ev := events.Calls[0].Arguments.Get(0).(notify.StatusChange)
	assert.Equal(t, []uuid.UUID{creator.ID}, ev.Recipients)
}

func TestTaskUpdateStatusNoOpSkipsEvent(t *testing.T) {
	projectID, _, _, actor, task := newTaskFixture()

	taskRepo := new(MockTaskRepository)
	events := new(MockEventPublisher)
	svc := NewTaskService(taskRepo, new(MockProjectRepository), events)

	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)

	updated, err := svc.UpdateStatus(context.Background(), actor, projectID, task.ID, "todo")

	assert.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, updated.Status)
	taskRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestTaskUpdateStatusUnknownStatus(t *testing.T) {
	projectID, _, _, actor, task := newTaskFixture()

	svc := NewTaskService(new(MockTaskRepository), new(MockProjectRepository), new(MockEventPublisher))

	_, err := svc.UpdateStatus(context.Background(), actor, projectID, task.ID, "archived")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaskUpdateStatusForbiddenForUnrelatedClient(t *testing.T) {
	projectID, _, _, _, task := newTaskFixture()

	taskRepo := new(MockTaskRepository)
	events := new(MockEventPublisher)
	svc := NewTaskService(taskRepo, new(MockProjectRepository), events)

	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)

	unrelated := domain.Actor{ID: uuid.New(), Role: domain.RoleClient}
	_, err := svc.UpdateStatus(context.Background(), unrelated, projectID, task.ID, "done")

	assert.ErrorIs(t, err, ErrForbidden)
	events.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestTaskWrongProjectLooksLikeMissing(t *testing.T) {
	_, _, _, _, task := newTaskFixture()

	taskRepo := new(MockTaskRepository)
	svc := NewTaskService(taskRepo, new(MockProjectRepository), new(MockEventPublisher))

	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)

	_, err := svc.GetByID(context.Background(), uuid.New(), task.ID)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskUpdateRejectsCycle(t *testing.T) {
	projectID, _, _, actor, task := newTaskFixture()

	taskRepo := new(MockTaskRepository)
	svc := NewTaskService(taskRepo, new(MockProjectRepository), new(MockEventPublisher))

	descendant := &domain.Task{ID: uuid.New(), ProjectID: projectID, ParentID: &task.ID}

	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("GetByID", mock.Anything, descendant.ID).Return(descendant, nil)
	taskRepo.On("IsDescendant", mock.Anything, task.ID, descendant.ID).Return(true, nil)

	update := domain.TaskUpdate{ParentID: &descendant.ID}
	_, err := svc.Update(context.Background(), actor, projectID, task.ID, update)

	assert.ErrorIs(t, err, ErrTaskCycle)
	taskRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskUpdateRejectsSelfParent(t *testing.T) {
	projectID, _, _, actor, task := newTaskFixture()

	taskRepo := new(MockTaskRepository)
	svc := NewTaskService(taskRepo, new(MockProjectRepository), new(MockEventPublisher))

	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)

	update := domain.TaskUpdate{ParentID: &task.ID}
	_, err := svc.Update(context.Background(), actor, projectID, task.ID, update)

	assert.ErrorIs(t, err, ErrTaskCycle)
}

func TestTaskCreateRejectsNonMemberAssignee(t *testing.T) {
	projectID := uuid.New()
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleProjectManager}
	outsider := uuid.New()

	taskRepo := new(MockTaskRepository)
	projectRepo := new(MockProjectRepository)
	svc := NewTaskService(taskRepo, projectRepo, new(MockEventPublisher))

	projectRepo.On("IsMember", mock.Anything, projectID, outsider).Return(false, nil)

	input := domain.TaskCreate{Title: "Pour foundation", AssigneeID: &outsider}
	_, err := svc.Create(context.Background(), actor, projectID, input)

	assert.ErrorIs(t, err, ErrInvalidInput)
	taskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskGetForCommentsNonMember404(t *testing.T) {
	_, _, _, _, task := newTaskFixture()

	taskRepo := new(MockTaskRepository)
	projectRepo := new(MockProjectRepository)
	svc := NewTaskService(taskRepo, projectRepo, new(MockEventPublisher))

	outsider := domain.Actor{ID: uuid.New(), Role: domain.RoleClient}
	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	projectRepo.On("IsMember", mock.Anything, task.ProjectID, outsider.ID).Return(false, nil)

	_, err := svc.GetForComments(context.Background(), outsider, task.ID)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskUpdateStatusRepoFailureSkipsEvent(t *testing.T) {
	projectID, _, _, actor, task := newTaskFixture()

	taskRepo := new(MockTaskRepository)
	events := new(MockEventPublisher)
	svc := NewTaskService(taskRepo, new(MockProjectRepository), events)

	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("UpdateStatus", mock.Anything, task.ID, domain.TaskStatusDone).Return(errors.New("connection reset"))

	_, err := svc.UpdateStatus(context.Background(), actor, projectID, task.ID, "done")

	assert.Error(t, err)
	events.AssertNotCalled(t, "Publish", mock.Anything)
}
