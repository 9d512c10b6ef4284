package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/veermshah/congruency/internal/model"
	"github.com/veermshah/congruency/internal/repository"
	"github.com/veermshah/congruency/internal/token"
)

var (
	ErrCredentialsRequired = model.NewError(model.KindValidation, "email and password are required", nil)
	ErrPasswordTooShort    = model.NewError(model.KindValidation, "password must be at least 6 characters", nil)
	ErrEmailTaken          = model.NewError(model.KindValidation, "email is already registered", nil)
	ErrInvalidCredentials  = model.NewError(model.KindIdentity, "invalid email or password", nil)
)

// AuthService defines the identity use cases: account creation and session
// issuance. Session invalidation is cookie removal at the HTTP layer.
type AuthService interface {
	// SignUp registers a new account and returns the user with a session token.
	SignUp(ctx context.Context, email, password string) (*model.User, string, error)

	// SignIn verifies credentials and returns the user with a session token.
	SignIn(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens token.Manager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(repo repository.UserRepository, tokens token.Manager) AuthService {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrCredentialsRequired
	}
	if len(password) < 6 {
		return nil, "", ErrPasswordTooShort
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	tok, err := s.tokens.Generate(stored.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	return stored, tok, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrCredentialsRequired
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	return user, tok, nil
}
