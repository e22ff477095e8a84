package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blog-backend/internal/domains/post/model"
)

// CollectionName is the mongo collection holding blog posts.
const CollectionName = "blog-posts"

// =====================================================
// MONGO REPOSITORY IMPLEMENTATION
// =====================================================

type mongoPostRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoPostRepository(db *mongo.Database, timeout time.Duration) PostRepository {
	return &mongoPostRepository{
		coll:    db.Collection(CollectionName),
		timeout: timeout,
	}
}

// postDocument is the stored shape of a BlogPost.
type postDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Title   string             `bson:"title"`
	Content string             `bson:"content"`
	Author  []model.Author     `bson:"author"`
	Created time.Time          `bson:"created"`
}

func (d *postDocument) toModel() *model.BlogPost {
	return &model.BlogPost{
		ID:      d.ID.Hex(),
		Title:   d.Title,
		Content: d.Content,
		Author:  model.CopyAuthors(d.Author),
		Created: d.Created.UTC(),
	}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%q: %w", id, model.ErrInvalidPostID)
	}
	return oid, nil
}

// =====================================================
// FIND
// =====================================================

func (r *mongoPostRepository) FindAll(ctx context.Context) ([]*model.BlogPost, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	posts := make([]*model.BlogPost, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

func (r *mongoPostRepository) FindByID(ctx context.Context, id string) (*model.BlogPost, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc postDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return doc.toModel(), nil
}

// =====================================================
// INSERT
// =====================================================

func (r *mongoPostRepository) Insert(ctx context.Context, post *model.BlogPost) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := postDocument{
		ID:      primitive.NewObjectID(),
		Title:   post.Title,
		Content: post.Content,
		Author:  model.CopyAuthors(post.Author),
		Created: now(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	post.ID = doc.ID.Hex()
	post.Created = doc.Created
	post.Author = doc.Author
	return nil
}

// =====================================================
// UPDATE
// =====================================================

func (r *mongoPostRepository) UpdateByID(ctx context.Context, id string, update model.PostUpdate) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	// $set refuses an empty document, so a no-op update only checks existence.
	if update.IsEmpty() {
		err := r.coll.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}
		return nil
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Author != nil {
		set["author"] = model.CopyAuthors(*update.Author)
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
	}
	return nil
}

// =====================================================
// DELETE
// =====================================================

func (r *mongoPostRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
	}
	return nil
}
