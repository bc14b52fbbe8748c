package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

func TestCommentCreateInternalRequiresTeamAccess(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo)

	client := domain.Actor{ID: uuid.New(), Role: domain.RoleClient}
	input := domain.CommentCreate{Body: "note to the crew", IsInternal: true}

	_, err := svc.Create(context.Background(), client, domain.CommentParentTask, uuid.New(), input)

	assert.ErrorIs(t, err, ErrForbidden)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentCreateInternalByTeamMember(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo)

	commentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	team := domain.Actor{ID: uuid.New(), Role: domain.RoleTeamMember}
	input := domain.CommentCreate{Body: "note to the crew", IsInternal: true}

	comment, err := svc.Create(context.Background(), team, domain.CommentParentTask, uuid.New(), input)

	assert.NoError(t, err)
	assert.True(t, comment.IsInternal)
	assert.Equal(t, team.ID, comment.AuthorID)
}

func TestCommentCreatePublicByClient(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo)

	commentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	client := domain.Actor{ID: uuid.New(), Role: domain.RoleClient}
	input := domain.CommentCreate{Body: "when will this be done?"}

	comment, err := svc.Create(context.Background(), client, domain.CommentParentRequest, uuid.New(), input)

	assert.NoError(t, err)
	assert.False(t, comment.IsInternal)
}

func TestCommentDeleteByAuthor(t *testing.T) {
	author := domain.Actor{ID: uuid.New(), Role: domain.RoleContractor}
	comment := &domain.Comment{ID: uuid.New(), AuthorID: author.ID}

	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo)

	commentRepo.On("GetByID", mock.Anything, comment.ID).Return(comment, nil)
	commentRepo.On("Delete", mock.Anything, comment.ID).Return(nil)

	err := svc.Delete(context.Background(), author, comment.ID)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestCommentDeleteByNonAuthorForbidden(t *testing.T) {
	comment := &domain.Comment{ID: uuid.New(), AuthorID: uuid.New()}

	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo)

	commentRepo.On("GetByID", mock.Anything, comment.ID).Return(comment, nil)

	other := domain.Actor{ID: uuid.New(), Role: domain.RoleTeamMember}
	err := svc.Delete(context.Background(), other, comment.ID)

	assert.ErrorIs(t, err, ErrForbidden)
	commentRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCommentDeleteByAdmin(t *testing.T) {
	comment := &domain.Comment{ID: uuid.New(), AuthorID: uuid.New()}

	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo)

	commentRepo.On("GetByID", mock.Anything, comment.ID).Return(comment, nil)
	commentRepo.On("Delete", mock.Anything, comment.ID).Return(nil)

	admin := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
	err := svc.Delete(context.Background(), admin, comment.ID)

	assert.NoError(t, err)
}

func TestCommentDeleteMissing(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo)

	id := uuid.New()
	commentRepo.On("GetByID", mock.Anything, id).Return(nil, nil)

	err := svc.Delete(context.Background(), domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}, id)

	assert.ErrorIs(t, err, ErrNotFound)
}
