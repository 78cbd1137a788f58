package ports

import (
	"context"

	"github.com/postboard/blog-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts. Every read
// returns posts with Creator populated.
type PostRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// FindByIDs returns the existing posts among ids, newest first. Unknown
	// ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Post, error)
	Count(ctx context.Context) (int64, error)
	// List returns up to limit posts sorted by creation time descending.
	List(ctx context.Context, offset, limit int64) ([]*domain.Post, error)
	// Create inserts the post and sets ID and both timestamps.
	Create(ctx context.Context, post *domain.Post) error
	// Save overwrites title, image and content and bumps UpdatedAt.
	Save(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}
