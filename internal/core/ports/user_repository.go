package ports

import (
	"context"

	"github.com/postboard/blog-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts the user and sets its ID.
	Create(ctx context.Context, user *domain.User) error
	// SetStatus overwrites the status of an existing user and nothing else.
	SetStatus(ctx context.Context, userID, status string) error
	AddPost(ctx context.Context, userID, postID string) error
	PullPost(ctx context.Context, userID, postID string) error
}
