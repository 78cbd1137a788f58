package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/postboard/blog-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID        map[string]*domain.User
	nextID      int
	statusErr   error  // if set, SetStatus returns this error
	addErr      error  // if set, AddPost returns this error
	pullErr     error  // if set, PullPost returns this error
	beforeWrite func() // runs at the start of SetStatus, e.g. to interleave another request
	writes      int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) put(u *domain.User) *domain.User {
	clone := *u
	clone.PostIDs = append([]string(nil), u.PostIDs...)
	r.byID[u.ID] = &clone
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	clone.PostIDs = append([]string(nil), u.PostIDs...)
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for id, u := range r.byID {
		if u.Email == email {
			return r.FindByID(ctx, id)
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, err := r.FindByEmail(ctx, u.Email); err == nil {
		return domain.ErrEmailExists
	}
	r.nextID++
	r.writes++
	u.ID = "u" + strconv.Itoa(r.nextID)
	r.put(u)
	return nil
}

func (r *stubUserRepo) SetStatus(_ context.Context, userID, status string) error {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	if r.statusErr != nil {
		return r.statusErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.writes++
	u.Status = status
	return nil
}

func (r *stubUserRepo) AddPost(_ context.Context, userID, postID string) error {
	if r.addErr != nil {
		return r.addErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PostIDs = append(u.PostIDs, postID)
	return nil
}

func (r *stubUserRepo) PullPost(_ context.Context, userID, postID string) error {
	if r.pullErr != nil {
		return r.pullErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	kept := u.PostIDs[:0]
	for _, id := range u.PostIDs {
		if id != postID {
			kept = append(kept, id)
		}
	}
	u.PostIDs = kept
	return nil
}

type stubPostRepo struct {
	byID     map[string]*domain.Post
	users    *stubUserRepo
	nextID   int
	clock    time.Time
	writes   int
	deleted  []string
	lastList [2]int64 // offset and limit passed to the last List call
}

func newStubPostRepo(users *stubUserRepo) *stubPostRepo {
	return &stubPostRepo{
		byID:  make(map[string]*domain.Post),
		users: users,
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// populate mirrors the $lookup of the real repository.
func (r *stubPostRepo) populate(p *domain.Post) *domain.Post {
	clone := *p
	if u, ok := r.users.byID[p.CreatorID]; ok {
		uc := *u
		clone.Creator = &uc
	}
	return &clone
}

func (r *stubPostRepo) sorted() []*domain.Post {
	all := make([]*domain.Post, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.populate(p), nil
}

func (r *stubPostRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Post, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*domain.Post
	for _, p := range r.sorted() {
		if want[p.ID] {
			out = append(out, r.populate(p))
		}
	}
	return out, nil
}

func (r *stubPostRepo) Count(context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *stubPostRepo) List(_ context.Context, offset, limit int64) ([]*domain.Post, error) {
	r.lastList = [2]int64{offset, limit}
	all := r.sorted()
	if offset >= int64(len(all)) {
		return []*domain.Post{}, nil
	}
	end := offset + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	out := make([]*domain.Post, 0, end-offset)
	for _, p := range all[offset:end] {
		out = append(out, r.populate(p))
	}
	return out, nil
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.nextID++
	r.writes++
	r.clock = r.clock.Add(time.Minute)
	p.ID = "p" + strconv.Itoa(r.nextID)
	p.CreatedAt, p.UpdatedAt = r.clock, r.clock
	clone := *p
	clone.Creator = nil
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) Save(_ context.Context, p *domain.Post) error {
	stored, ok := r.byID[p.ID]
	if !ok {
		return domain.ErrPostNotFound
	}
	r.writes++
	r.clock = r.clock.Add(time.Minute)
	stored.Title, stored.Content, stored.ImageURL = p.Title, p.Content, p.ImageURL
	stored.UpdatedAt = r.clock
	p.UpdatedAt = r.clock
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrPostNotFound
	}
	r.writes++
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubDiscarder struct {
	paths []string
}

func (d *stubDiscarder) Discard(path string) { d.paths = append(d.paths, path) }

var errStore = errors.New("store unavailable")

func asUser(id string) context.Context {
	return domain.WithIdentity(context.Background(), domain.Authenticated{UserID: id})
}
