package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"blog-backend/internal/domains/post/model"
)

// =====================================================
// IN-MEMORY REPOSITORY
// =====================================================
// memoryPostRepository keeps posts in a map, to be used for tests and local
// runs with DATABASE_URL=memory://.

type memoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]*model.BlogPost
	order []string
}

func NewMemoryPostRepository() PostRepository {
	return &memoryPostRepository{
		posts: make(map[string]*model.BlogPost),
	}
}

func (r *memoryPostRepository) FindAll(ctx context.Context) ([]*model.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.BlogPost, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clonePost(r.posts[id]))
	}
	return out, nil
}

func (r *memoryPostRepository) FindByID(ctx context.Context, id string) (*model.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%q: %w", id, model.ErrInvalidPostID)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
	}
	return clonePost(post), nil
}

func (r *memoryPostRepository) Insert(ctx context.Context, post *model.BlogPost) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate post id: %w", err)
	}
	post.ID = id.String()
	post.Created = now()
	post.Author = model.CopyAuthors(post.Author)

	r.mu.Lock()
	r.posts[post.ID] = clonePost(post)
	r.order = append(r.order, post.ID)
	r.mu.Unlock()
	return nil
}

func (r *memoryPostRepository) UpdateByID(ctx context.Context, id string, update model.PostUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%q: %w", id, model.ErrInvalidPostID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
	}
	update.Apply(post)
	return nil
}

func (r *memoryPostRepository) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%q: %w", id, model.ErrInvalidPostID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
	}
	delete(r.posts, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func clonePost(p *model.BlogPost) *model.BlogPost {
	c := *p
	c.Author = model.CopyAuthors(p.Author)
	return &c
}
