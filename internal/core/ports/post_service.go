package ports

import (
	"context"

	"github.com/postboard/blog-api/internal/core/domain"
)

// PostInput carries post data for create and update.
type PostInput struct {
	Title    string
	ImageURL string
	Content  string
}

// PostService defines use-case operations for posts. Every method requires
// an authenticated identity on ctx.
type PostService interface {
	CreatePost(ctx context.Context, in PostInput) (*domain.Post, error)
	GetPosts(ctx context.Context, page int) (*domain.PostPage, error)
	GetPostByID(ctx context.Context, id string) (*domain.Post, error)
	UpdatePost(ctx context.Context, id string, in PostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id string) error
	// PostsOf resolves a user's post list for nested GraphQL fields.
	PostsOf(ctx context.Context, user *domain.User) ([]*domain.Post, error)
}
