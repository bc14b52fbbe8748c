package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/security"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

type stubUserRepo struct{}

func (stubUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }
func (stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, nil
}
func (stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}
func (stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) { return false, nil }
func (stubUserRepo) List(ctx context.Context) ([]domain.User, error)             { return nil, nil }
func (stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, update *domain.UserProfileUpdate) error {
	return nil
}
func (stubUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role, teamType string) error {
	return nil
}
func (stubUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) error { return nil }

type stubTokenStore struct {
	revoked map[string]bool
}

func (s *stubTokenStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revoked == nil {
		s.revoked = make(map[string]bool)
	}
	s.revoked[tokenID] = true
	return nil
}

func (s *stubTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func newTestAuthHandler() (*AuthHandler, *security.JWTManager) {
	jwtManager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute, 24*time.Hour)
	svc := service.NewAuthService(stubUserRepo{}, &stubTokenStore{}, jwtManager)
	return NewAuthHandler(svc), jwtManager
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	h, jwtManager := newTestAuthHandler()

	_, refreshToken, _, err := jwtManager.GenerateTokenPair(uuid.New(), "u@example.com", domain.RoleClient)
	if err != nil {
		t.Fatalf("failed to generate tokens: %v", err)
	}

	body := `{"refresh_token":"` + refreshToken + `"}`

	// first logout
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Errorf("first logout: got status %d, want 200", rec.Code)
	}

	// second logout with the same, now-revoked token
	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Errorf("second logout: got status %d, want 200", rec.Code)
	}
}

func TestLogoutSwallowsMalformedBodies(t *testing.T) {
	h, _ := newTestAuthHandler()

	for _, body := range []string{"", "{", `{"refresh_token":"garbage"}`} {
		rec := httptest.NewRecorder()
		h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", strings.NewReader(body)))
		if rec.Code != http.StatusOK {
			t.Errorf("logout with body %q: got status %d, want 200", body, rec.Code)
		}
	}
}

func TestCSRFIssuesCookie(t *testing.T) {
	h, _ := newTestAuthHandler()

	rec := httptest.NewRecorder()
	h.CSRF(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/csrf", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "XSRF-TOKEN" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("XSRF-TOKEN cookie not set")
	}

	var resp struct {
		Data struct {
			Token string `json:"csrf_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Token != cookie.Value {
		t.Error("response token does not match cookie value")
	}
}

func TestHealthCheckShape(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, key := range []string{"status", "timestamp", "service"} {
		if resp.Data[key] == "" {
			t.Errorf("health payload missing %q", key)
		}
	}
}
