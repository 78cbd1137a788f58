package domain

import "time"

// ImageUnchanged is the imageUrl value clients send on update when the
// stored image must be kept.
const ImageUnchanged = "undefined"

// Post is a blog entry. Creator is populated by the repository on reads;
// CreatorID is always set.
type Post struct {
	ID        string
	Title     string
	ImageURL  string
	Content   string
	CreatorID string
	Creator   *User
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy reports whether userID created the post.
func (p *Post) IsOwnedBy(userID string) bool {
	return userID != "" && p.CreatorID == userID
}

// PostPage is a single page of posts plus the unfiltered total.
type PostPage struct {
	Posts      []*Post
	TotalPosts int64
}
