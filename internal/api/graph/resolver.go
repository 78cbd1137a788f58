package graph

import (
	"context"
	"strconv"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/api/errmap"
	"github.com/postboard/blog-api/internal/core/ports"
	"github.com/postboard/blog-api/internal/pkg/metrics"
)

// Resolver is the root of both RootQuery and RootMutation.
type Resolver struct {
	auth  ports.AuthService
	posts ports.PostService
	log   zerolog.Logger
}

func NewResolver(auth ports.AuthService, posts ports.PostService, log zerolog.Logger) *Resolver {
	return &Resolver{auth: auth, posts: posts, log: log}
}

type userInputData struct {
	Email    string
	Name     string
	Password string
}

type postInputData struct {
	Title    string
	ImageURL string
	Content  string
}

func (in *postInputData) toPort() ports.PostInput {
	if in == nil {
		return ports.PostInput{}
	}
	return ports.PostInput{Title: in.Title, ImageURL: in.ImageURL, Content: in.Content}
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (r *Resolver) SignIn(ctx context.Context, args struct {
	Email    string
	Password string
}) (_ *authDataResolver, err error) {
	defer r.observe("signIn", time.Now(), &err)

	data, err := r.auth.SignIn(ctx, args.Email, args.Password)
	if err != nil {
		return nil, err
	}
	return &authDataResolver{data: data}, nil
}

func (r *Resolver) GetPosts(ctx context.Context, args struct{ Page *int32 }) (_ *postDataResolver, err error) {
	defer r.observe("getPosts", time.Now(), &err)

	page := 1
	if args.Page != nil {
		page = int(*args.Page)
	}
	res, err := r.posts.GetPosts(ctx, page)
	if err != nil {
		return nil, err
	}
	return &postDataResolver{root: r, page: res}, nil
}

func (r *Resolver) GetPostByID(ctx context.Context, args struct{ ID graphql.ID }) (_ *postResolver, err error) {
	defer r.observe("getPostById", time.Now(), &err)

	post, err := r.posts.GetPostByID(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &postResolver{root: r, post: post}, nil
}

func (r *Resolver) GetUser(ctx context.Context) (_ *userResolver, err error) {
	defer r.observe("getUser", time.Now(), &err)

	user, err := r.auth.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	return &userResolver{root: r, user: user}, nil
}

// ── Mutations ────────────────────────────────────────────────────────────────

func (r *Resolver) CreateUser(ctx context.Context, args struct{ UserInput *userInputData }) (_ *userResolver, err error) {
	defer r.observe("createUser", time.Now(), &err)

	var in ports.UserInput
	if args.UserInput != nil {
		in = ports.UserInput{Email: args.UserInput.Email, Name: args.UserInput.Name, Password: args.UserInput.Password}
	}
	user, err := r.auth.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return &userResolver{root: r, user: user}, nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct{ PostInput *postInputData }) (_ *postResolver, err error) {
	defer r.observe("createPost", time.Now(), &err)

	post, err := r.posts.CreatePost(ctx, args.PostInput.toPort())
	if err != nil {
		return nil, err
	}
	metrics.PostsCreatedTotal.Inc()
	return &postResolver{root: r, post: post}, nil
}

func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	PostInput *postInputData
	ID        graphql.ID
}) (_ *postResolver, err error) {
	defer r.observe("updatePost", time.Now(), &err)

	post, err := r.posts.UpdatePost(ctx, string(args.ID), args.PostInput.toPort())
	if err != nil {
		return nil, err
	}
	return &postResolver{root: r, post: post}, nil
}

func (r *Resolver) DeletePost(ctx context.Context, args struct{ ID graphql.ID }) (_ bool, err error) {
	defer r.observe("deletePost", time.Now(), &err)

	if err := r.posts.DeletePost(ctx, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) UpdateStatus(ctx context.Context, args struct{ Status string }) (_ *userResolver, err error) {
	defer r.observe("updateStatus", time.Now(), &err)

	user, err := r.auth.UpdateStatus(ctx, args.Status)
	if err != nil {
		return nil, err
	}
	return &userResolver{root: r, user: user}, nil
}

// observe records duration and outcome of a root operation.
func (r *Resolver) observe(op string, start time.Time, errp *error) {
	metrics.GraphQLDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err := *errp; err != nil {
		m, known := errmap.Map(err)
		outcome = strconv.Itoa(m.Status)
		if !known {
			r.log.Error().Err(err).Str("operation", op).Msg("graphql operation failed")
		}
	}
	metrics.GraphQLOperationsTotal.WithLabelValues(op, outcome).Inc()
}
