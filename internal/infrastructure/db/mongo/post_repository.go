package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/postboard/blog-api/internal/core/domain"
)

const collectionPosts = "posts"

// PostRepository implements ports.PostRepository using MongoDB. Reads go
// through an aggregation that joins the creator from the users collection.
type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	ImageURL  string             `bson:"imageUrl"`
	Content   string             `bson:"content"`
	Creator   primitive.ObjectID `bson:"creator"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// populatedPost is a post as returned by the $lookup pipeline.
type populatedPost struct {
	Post       mongoPost   `bson:",inline"`
	CreatorDoc []mongoUser `bson:"creatorDoc"`
}

func (pp *populatedPost) toDomain() *domain.Post {
	p := &domain.Post{
		ID:        pp.Post.ID.Hex(),
		Title:     pp.Post.Title,
		ImageURL:  pp.Post.ImageURL,
		Content:   pp.Post.Content,
		CreatorID: pp.Post.Creator.Hex(),
		CreatedAt: pp.Post.CreatedAt.UTC(),
		UpdatedAt: pp.Post.UpdatedAt.UTC(),
	}
	if len(pp.CreatorDoc) > 0 {
		p.Creator = pp.CreatorDoc[0].toDomain()
	}
	return p
}

// FindByID returns domain.ErrPostNotFound for unknown or malformed ids.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	posts, err := r.aggregate(ctx, bson.M{"_id": oid}, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if len(posts) == 0 {
		return nil, domain.ErrPostNotFound
	}
	return posts[0], nil
}

func (r *PostRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Post, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*domain.Post{}, nil
	}

	posts, err := r.aggregate(ctx, bson.M{"_id": bson.M{"$in": oids}}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.D{})
}

func (r *PostRepository) List(ctx context.Context, offset, limit int64) ([]*domain.Post, error) {
	posts, err := r.aggregate(ctx, bson.M{}, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// aggregate runs match → sort → skip → limit → lookup(creator). A zero
// limit means no limit.
func (r *PostRepository) aggregate(ctx context.Context, match bson.M, skip, limit int64) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: collectionUsers},
		{Key: "localField", Value: "creator"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "creatorDoc"},
	}}})

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []populatedPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Post, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Create inserts a new post and sets its id and timestamps.
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	creator, err := primitive.ObjectIDFromHex(post.CreatorID)
	if err != nil {
		return domain.ErrInvalidUser
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := storedNow()
	doc := mongoPost{
		ID:        primitive.NewObjectID(),
		Title:     post.Title,
		ImageURL:  post.ImageURL,
		Content:   post.Content,
		Creator:   creator,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	post.ID = doc.ID.Hex()
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

// Save overwrites title, image and content and bumps updatedAt.
func (r *PostRepository) Save(ctx context.Context, post *domain.Post) error {
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := storedNow()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":     post.Title,
		"imageUrl":  post.ImageURL,
		"content":   post.Content,
		"updatedAt": now,
	}})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}

	post.UpdatedAt = now
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes used by listing and ownership lookups.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "creator", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// storedNow truncates to the millisecond precision BSON dates keep.
func storedNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func hexIDs(oids []primitive.ObjectID) []string {
	out := make([]string, len(oids))
	for i, oid := range oids {
		out[i] = oid.Hex()
	}
	return out
}
