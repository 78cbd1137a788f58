package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

// timeLayout renders timestamps as UTC ISO-8601 with milliseconds.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

type userResolver struct {
	root *Resolver
	user *domain.User
}

func (u *userResolver) ID() graphql.ID { return graphql.ID(u.user.ID) }
func (u *userResolver) Name() string   { return u.user.Name }
func (u *userResolver) Email() string  { return u.user.Email }
func (u *userResolver) Status() string { return u.user.Status }

// Password never leaves the server.
func (u *userResolver) Password() *string { return nil }

func (u *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	posts, err := u.root.posts.PostsOf(ctx, u.user)
	if err != nil {
		return nil, err
	}
	return u.root.wrapPosts(posts), nil
}

type postResolver struct {
	root *Resolver
	post *domain.Post
}

func (p *postResolver) ID() graphql.ID    { return graphql.ID(p.post.ID) }
func (p *postResolver) Title() string     { return p.post.Title }
func (p *postResolver) ImageURL() string  { return p.post.ImageURL }
func (p *postResolver) Content() string   { return p.post.Content }
func (p *postResolver) CreatedAt() string { return formatTime(p.post.CreatedAt) }
func (p *postResolver) UpdatedAt() string { return formatTime(p.post.UpdatedAt) }

func (p *postResolver) Creator() *userResolver {
	creator := p.post.Creator
	if creator == nil {
		// Creator document is gone; expose what the post still knows.
		creator = &domain.User{ID: p.post.CreatorID}
	}
	return &userResolver{root: p.root, user: creator}
}

type authDataResolver struct {
	data *ports.AuthData
}

func (a *authDataResolver) Token() string  { return a.data.Token }
func (a *authDataResolver) UserID() string { return a.data.UserID }

type postDataResolver struct {
	root *Resolver
	page *domain.PostPage
}

func (d *postDataResolver) Posts() []*postResolver { return d.root.wrapPosts(d.page.Posts) }
func (d *postDataResolver) TotalPosts() int32      { return int32(d.page.TotalPosts) }

func (r *Resolver) wrapPosts(posts []*domain.Post) []*postResolver {
	out := make([]*postResolver, len(posts))
	for i, p := range posts {
		out[i] = &postResolver{root: r, post: p}
	}
	return out
}
