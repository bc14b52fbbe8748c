package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/security"
)

func newJWTManager() *security.JWTManager {
	return security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute, 7*24*time.Hour)
}

func TestRegisterDefaultsToClientRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, new(MockTokenStore), newJWTManager())

	userRepo.On("EmailExists", mock.Anything, "new@example.com").Return(false, nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleClient && u.PasswordHash != "password123"
	})).Return(nil)

	user, err := svc.Register(context.Background(), domain.UserCreate{
		Email:    "new@example.com",
		Name:     "New User",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleClient, user.Role)
	userRepo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, new(MockTokenStore), newJWTManager())

	userRepo.On("EmailExists", mock.Anything, "taken@example.com").Return(true, nil)

	_, err := svc.Register(context.Background(), domain.UserCreate{
		Email:    "taken@example.com",
		Name:     "Dup",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "u@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
	}

	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, new(MockTokenStore), newJWTManager())

	userRepo.On("GetByEmail", mock.Anything, "u@example.com").Return(user, nil)

	_, err := svc.Login(context.Background(), domain.UserLogin{Email: "u@example.com", Password: "wrong"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, new(MockTokenStore), newJWTManager())

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	_, err := svc.Login(context.Background(), domain.UserLogin{Email: "ghost@example.com", Password: "whatever"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "u@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleArchitect,
	}

	userRepo := new(MockUserRepository)
	jwtManager := newJWTManager()
	svc := NewAuthService(userRepo, new(MockTokenStore), jwtManager)

	userRepo.On("GetByEmail", mock.Anything, "u@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), domain.UserLogin{Email: "u@example.com", Password: "correct horse"})

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	actor, err := jwtManager.ValidateAccessToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, domain.RoleArchitect, actor.Role)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	jwtManager := newJWTManager()
	_, refreshToken, _, err := jwtManager.GenerateTokenPair(uuid.New(), "u@example.com", domain.RoleClient)
	assert.NoError(t, err)

	claims, err := jwtManager.ValidateRefreshToken(refreshToken)
	assert.NoError(t, err)

	tokens := new(MockTokenStore)
	svc := NewAuthService(new(MockUserRepository), tokens, jwtManager)

	tokens.On("IsRevoked", mock.Anything, claims.TokenID).Return(true, nil)

	_, err = svc.Refresh(context.Background(), refreshToken)

	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshRotatesToken(t *testing.T) {
	userID := uuid.New()
	user := &domain.User{ID: userID, Email: "u@example.com", Role: domain.RoleTeamMember}

	jwtManager := newJWTManager()
	_, refreshToken, _, err := jwtManager.GenerateTokenPair(userID, user.Email, user.Role)
	assert.NoError(t, err)

	claims, err := jwtManager.ValidateRefreshToken(refreshToken)
	assert.NoError(t, err)

	userRepo := new(MockUserRepository)
	tokens := new(MockTokenStore)
	svc := NewAuthService(userRepo, tokens, jwtManager)

	tokens.On("IsRevoked", mock.Anything, claims.TokenID).Return(false, nil)
	userRepo.On("GetByID", mock.Anything, userID).Return(user, nil)
	tokens.On("Revoke", mock.Anything, claims.TokenID, mock.Anything).Return(nil)

	pair, err := svc.Refresh(context.Background(), refreshToken)

	assert.NoError(t, err)
	assert.NotEqual(t, refreshToken, pair.RefreshToken)
	tokens.AssertExpectations(t)
}

func TestLogoutIsIdempotent(t *testing.T) {
	jwtManager := newJWTManager()
	userID := uuid.New()
	_, refreshToken, _, err := jwtManager.GenerateTokenPair(userID, "u@example.com", domain.RoleClient)
	assert.NoError(t, err)

	tokens := new(MockTokenStore)
	svc := NewAuthService(new(MockUserRepository), tokens, jwtManager)

	tokens.On("Revoke", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// first and second logout both complete without error
	svc.Logout(context.Background(), refreshToken)
	svc.Logout(context.Background(), refreshToken)

	tokens.AssertNumberOfCalls(t, "Revoke", 2)
}

func TestLogoutSwallowsGarbageToken(t *testing.T) {
	tokens := new(MockTokenStore)
	svc := NewAuthService(new(MockUserRepository), tokens, newJWTManager())

	// none of these may panic or touch the store
	svc.Logout(context.Background(), "")
	svc.Logout(context.Background(), "not-a-jwt")

	tokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}
