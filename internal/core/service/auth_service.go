package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
	"github.com/postboard/blog-api/internal/core/validation"
)

const passwordCost = 12

// AuthService implements registration, sign-in and profile operations.
type AuthService struct {
	users  ports.UserRepository
	tokens *TokenService
	log    zerolog.Logger
	cost   int
}

func NewAuthService(users ports.UserRepository, tokens *TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log, cost: passwordCost}
}

// CreateUser validates the input, rejects a taken email and stores the user
// with a bcrypt password hash.
func (s *AuthService) CreateUser(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	if err := validation.Check(validation.User(in)); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("create user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Status:       domain.DefaultStatus,
		PostIDs:      []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can still trip the unique index.
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user created")
	return user, nil
}

// SignIn checks the credentials and issues a token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.AuthData, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrEmailNotFound
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrWrongPassword
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return &ports.AuthData{Token: token, UserID: user.ID}, nil
}

// GetUser returns the acting user.
func (s *AuthService) GetUser(ctx context.Context) (*domain.User, error) {
	id, err := domain.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id.UserID)
}

// UpdateStatus overwrites the acting user's status.
func (s *AuthService) UpdateStatus(ctx context.Context, status string) (*domain.User, error) {
	id, err := domain.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetStatus(ctx, id.UserID, status); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s.users.FindByID(ctx, id.UserID)
}
