package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"

	"blog-backend/internal/domains/post/model"
)

// =====================================================
// BOLT REPOSITORY IMPLEMENTATION
// =====================================================
// Posts are JSON values in one bucket keyed by id. Ids are UUIDv7, so the
// bucket's byte order is also insertion order.

var postsBucket = []byte(CollectionName)

type boltPostRepository struct {
	db *bolt.DB
}

// boltDocument is the stored shape of a BlogPost.
type boltDocument struct {
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Author  []model.Author `json:"author"`
	Created time.Time      `json:"created"`
}

func NewBoltPostRepository(db *bolt.DB) (PostRepository, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(postsBucket); err != nil {
			return fmt.Errorf("could not ensure bucket %q exists: %w", postsBucket, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &boltPostRepository{db: db}, nil
}

func decodeBoltPost(key, value []byte) (*model.BlogPost, error) {
	var doc boltDocument
	if err := json.Unmarshal(value, &doc); err != nil {
		return nil, fmt.Errorf("could not decode post %s: %w", key, err)
	}
	return &model.BlogPost{
		ID:      string(key),
		Title:   doc.Title,
		Content: doc.Content,
		Author:  model.CopyAuthors(doc.Author),
		Created: doc.Created.UTC(),
	}, nil
}

func encodeBoltPost(p *model.BlogPost) ([]byte, error) {
	return json.Marshal(boltDocument{
		Title:   p.Title,
		Content: p.Content,
		Author:  model.CopyAuthors(p.Author),
		Created: p.Created,
	})
}

func (r *boltPostRepository) FindAll(ctx context.Context) ([]*model.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	posts := []*model.BlogPost{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(postsBucket).ForEach(func(k, v []byte) error {
			post, err := decodeBoltPost(k, v)
			if err != nil {
				return err
			}
			posts = append(posts, post)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (r *boltPostRepository) FindByID(ctx context.Context, id string) (post *model.BlogPost, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%q: %w", id, model.ErrInvalidPostID)
	}

	err = r.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(postsBucket).Get([]byte(id))
		if value == nil {
			return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
		}
		post, err = decodeBoltPost([]byte(id), value)
		return err
	})
	return post, err
}

func (r *boltPostRepository) Insert(ctx context.Context, post *model.BlogPost) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate post id: %w", err)
	}

	stored := *post
	stored.ID = id.String()
	stored.Created = now()
	stored.Author = model.CopyAuthors(post.Author)

	value, err := encodeBoltPost(&stored)
	if err != nil {
		return fmt.Errorf("failed to encode post: %w", err)
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(postsBucket).Put([]byte(stored.ID), value)
	})
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	*post = stored
	return nil
}

func (r *boltPostRepository) UpdateByID(ctx context.Context, id string, update model.PostUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%q: %w", id, model.ErrInvalidPostID)
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		value := bucket.Get([]byte(id))
		if value == nil {
			return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
		}
		if update.IsEmpty() {
			return nil
		}

		post, err := decodeBoltPost([]byte(id), value)
		if err != nil {
			return err
		}
		update.Apply(post)

		encoded, err := encodeBoltPost(post)
		if err != nil {
			return fmt.Errorf("failed to encode post: %w", err)
		}
		return bucket.Put([]byte(id), encoded)
	})
}

func (r *boltPostRepository) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%q: %w", id, model.ErrInvalidPostID)
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		if bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
		}
		return bucket.Delete([]byte(id))
	})
}
