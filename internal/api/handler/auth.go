package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/api/resource"
	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, resource.NewUser(user))
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if !decodeAndValidate(w, r, &input) {
		return
	}

	tokens, err := h.authService.Login(r.Context(), input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, tokens)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, tokens)
}

// Logout revokes the refresh token. It always succeeds: a malformed, expired
// or already-revoked token still gets a 200.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	// ignore body errors, logout must not fail
	_ = json.NewDecoder(r.Body).Decode(&input)

	h.authService.Logout(r.Context(), input.RefreshToken)

	response.OK(w, map[string]string{"status": "logged_out"})
}

// CSRF issues a fresh XSRF-TOKEN cookie for cookie-based clients
func (h *AuthHandler) CSRF(w http.ResponseWriter, r *http.Request) {
	token := uuid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "XSRF-TOKEN",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(2 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})

	response.OK(w, map[string]string{"csrf_token": token})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), actor.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewUser(user))
}
