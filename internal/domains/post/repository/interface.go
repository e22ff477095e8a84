package repository

import (
	"context"

	"blog-backend/internal/domains/post/model"
)

// =====================================================
// POST REPOSITORY INTERFACE
// =====================================================
// One implementation per storage driver: mongo, postgres, bolt, memory.
// Every method performs a single storage operation.

type PostRepository interface {
	// FindAll returns every stored post, oldest first.
	FindAll(ctx context.Context) ([]*model.BlogPost, error)

	// FindByID returns model.ErrPostNotFound when no post has the id and
	// model.ErrInvalidPostID when the id can never exist for this driver.
	FindByID(ctx context.Context, id string) (*model.BlogPost, error)

	// Insert assigns post.ID and post.Created and stores the post.
	Insert(ctx context.Context, post *model.BlogPost) error

	// UpdateByID applies the fields present in update.
	// An empty update still reports model.ErrPostNotFound for a missing id.
	UpdateByID(ctx context.Context, id string, update model.PostUpdate) error

	// DeleteByID removes the post, model.ErrPostNotFound if it was not there.
	DeleteByID(ctx context.Context, id string) error
}
