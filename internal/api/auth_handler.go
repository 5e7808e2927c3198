package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/muhammedsharbag/E-Shop-App/internal/auth"
	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/service"
)

// AuthService is the slice of the service layer the credential
// endpoints need.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, *service.Credentials, error)
	Login(ctx context.Context, email, password string) (*domain.User, *service.Credentials, error)
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

type SignupRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponseDTO struct {
	User        *domain.User         `json:"user"`
	Credentials *service.Credentials `json:"credentials"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return
	}

	user, creds, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		respondError(w, http.StatusBadRequest, "invalid_password", err.Error())
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponseDTO{User: user, Credentials: creds})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, creds, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponseDTO{User: user, Credentials: creds})
}
