package ports

import (
	"context"

	"github.com/postboard/blog-api/internal/core/domain"
)

// UserInput carries registration data.
type UserInput struct {
	Email    string
	Name     string
	Password string
}

// AuthData is returned by a successful sign-in.
type AuthData struct {
	Token  string
	UserID string
}

// AuthService covers registration, sign-in and the acting user's profile.
type AuthService interface {
	CreateUser(ctx context.Context, in UserInput) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*AuthData, error)
	GetUser(ctx context.Context) (*domain.User, error)
	UpdateStatus(ctx context.Context, status string) (*domain.User, error)
}

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
