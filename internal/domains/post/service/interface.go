package service

import (
	"context"

	"blog-backend/internal/domains/post/model"
)

// =====================================================
// POST SERVICE INTERFACE
// =====================================================

type PostService interface {
	// ListPosts returns every post.
	ListPosts(ctx context.Context) ([]*model.BlogPost, error)

	// GetPost returns one post by id.
	GetPost(ctx context.Context, id string) (*model.BlogPost, error)

	// CreatePost checks field presence, then inserts the post.
	CreatePost(ctx context.Context, req model.CreatePostRequest) (*model.BlogPost, error)

	// UpdatePost checks the ids match, then applies the fields that were sent.
	UpdatePost(ctx context.Context, id string, req model.UpdatePostRequest) error

	// DeletePost removes one post by id.
	DeletePost(ctx context.Context, id string) error
}
