package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/muhammedsharbag/E-Shop-App/internal/auth"
	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
)

// Credentials is the issued token plus its expiry, returned to the
// client on signup and login.
type Credentials struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger zerolog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a new account with the default role. Role escalation
// never happens through this path.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, *Credentials, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Active:       true,
	}
	err = s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateUser) {
		return nil, nil, ErrEmailTaken
	}
	if err != nil {
		return nil, nil, err
	}

	creds, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info().Str("user_id", user.ID.Hex()).Msg("user registered")
	return user, creds, nil
}

// Login verifies the password and issues a fresh token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *Credentials, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, nil, ErrAccountDisabled
	}

	creds, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	return user, creds, nil
}

func (s *AuthService) issue(user *domain.User) (*Credentials, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}
	return &Credentials{Token: token, ExpiresAt: expiresAt}, nil
}
