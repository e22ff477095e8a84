package service

import (
	"context"
	"fmt"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) ListPosts(ctx context.Context) ([]*model.BlogPost, error) {
	return s.postRepo.FindAll(ctx)
}

func (s *postService) GetPost(ctx context.Context, id string) (*model.BlogPost, error) {
	return s.postRepo.FindByID(ctx, id)
}

func (s *postService) CreatePost(ctx context.Context, req model.CreatePostRequest) (*model.BlogPost, error) {
	// Step 1: presence of title, content, author
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: record invariants, enforced the way the collection schema does
	post := req.ToPost()
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidPost, err)
	}

	// Step 3: insert, storage assigns id and created
	if err := s.postRepo.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) UpdatePost(ctx context.Context, id string, req model.UpdatePostRequest) error {
	if err := req.ValidateFor(id); err != nil {
		return err
	}
	return s.postRepo.UpdateByID(ctx, id, req.Changes())
}

func (s *postService) DeletePost(ctx context.Context, id string) error {
	return s.postRepo.DeleteByID(ctx, id)
}
