package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
	"github.com/postboard/blog-api/internal/core/validation"
)

// DefaultPostsPerPage is the getPosts page size.
const DefaultPostsPerPage = 2

// Pagination controls how getPosts slices the post list.
type Pagination struct {
	PerPage int
	// LegacyOffset skips (page-1)*page posts instead of (page-1)*PerPage,
	// matching what older clients were served.
	LegacyOffset bool
}

// Window returns skip and limit for a 1-based page.
func (p Pagination) Window(page int) (offset, limit int64) {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPostsPerPage
	}
	if page < 1 {
		page = 1
	}
	if p.LegacyOffset {
		return int64((page - 1) * page), int64(perPage)
	}
	return int64((page - 1) * perPage), int64(perPage)
}

// PostService implements post CRUD for authenticated users.
type PostService struct {
	posts  ports.PostRepository
	users  ports.UserRepository
	images ports.ImageDiscarder
	pages  Pagination
	log    zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	users ports.UserRepository,
	images ports.ImageDiscarder,
	pages Pagination,
	log zerolog.Logger,
) *PostService {
	return &PostService{posts: posts, users: users, images: images, pages: pages, log: log}
}

// CreatePost stores a post for the acting user and appends it to the user's
// post list. If the append fails the post is deleted again.
func (s *PostService) CreatePost(ctx context.Context, in ports.PostInput) (*domain.Post, error) {
	id, err := domain.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.Check(validation.Post(in)); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidUser
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	post := &domain.Post{
		Title:     in.Title,
		ImageURL:  in.ImageURL,
		Content:   in.Content,
		CreatorID: user.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := s.users.AddPost(ctx, user.ID, post.ID); err != nil {
		if delErr := s.posts.Delete(ctx, post.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("post_id", post.ID).Msg("orphaned post left after failed user update")
		}
		return nil, fmt.Errorf("create post: link to user: %w", err)
	}

	user.PostIDs = append(user.PostIDs, post.ID)
	post.Creator = user

	s.log.Info().Str("post_id", post.ID).Str("user_id", user.ID).Msg("post created")
	return post, nil
}

// GetPosts returns one page of posts, newest first, and the total count.
func (s *PostService) GetPosts(ctx context.Context, page int) (*domain.PostPage, error) {
	if _, err := domain.RequireAuth(ctx); err != nil {
		return nil, err
	}

	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("get posts: count: %w", err)
	}

	offset, limit := s.pages.Window(page)
	posts, err := s.posts.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("get posts: %w", err)
	}

	return &domain.PostPage{Posts: posts, TotalPosts: total}, nil
}

// GetPostByID returns a single post with its creator.
func (s *PostService) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	if _, err := domain.RequireAuth(ctx); err != nil {
		return nil, err
	}
	return s.posts.FindByID(ctx, id)
}

// UpdatePost overwrites title and content of a post owned by the acting
// user. The image is replaced only when the input carries a new one.
func (s *PostService) UpdatePost(ctx context.Context, id string, in ports.PostInput) (*domain.Post, error) {
	actor, err := domain.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsOwnedBy(actor.UserID) {
		return nil, domain.ErrNotAuthorized
	}

	if err := validation.Check(validation.Post(in)); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	if in.ImageURL != "" && in.ImageURL != domain.ImageUnchanged {
		post.ImageURL = in.ImageURL
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post owned by the acting user, schedules removal of
// its image and drops it from the user's post list.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	actor, err := domain.RequireAuth(ctx)
	if err != nil {
		return err
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !post.IsOwnedBy(actor.UserID) {
		return domain.ErrNotAuthorized
	}

	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if post.ImageURL != "" {
		s.images.Discard(post.ImageURL)
	}

	if err := s.users.PullPost(ctx, user.ID, post.ID); err != nil {
		s.log.Error().Err(err).Str("post_id", post.ID).Str("user_id", user.ID).Msg("dangling post reference left on user")
		return fmt.Errorf("delete post: unlink from user: %w", err)
	}

	s.log.Info().Str("post_id", post.ID).Str("user_id", user.ID).Msg("post deleted")
	return nil
}

// PostsOf loads the posts referenced by user.
func (s *PostService) PostsOf(ctx context.Context, user *domain.User) ([]*domain.Post, error) {
	if len(user.PostIDs) == 0 {
		return []*domain.Post{}, nil
	}
	return s.posts.FindByIDs(ctx, user.PostIDs)
}
