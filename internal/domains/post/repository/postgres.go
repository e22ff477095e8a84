package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/post/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
// Posts live in one table; the author list is a JSONB array so the
// row keeps the same document shape as the mongo collection.
//
// ┌──────────────────────────────┐
// │ blog_posts                   │
// ├──────────────────────────────┤
// │ id       UUID PRIMARY KEY    │
// │ title    TEXT NOT NULL       │
// │ content  TEXT NOT NULL       │
// │ author   JSONB NOT NULL      │
// │ created  TIMESTAMPTZ         │
// └──────────────────────────────┘

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS blog_posts (
		id      UUID PRIMARY KEY,
		title   TEXT NOT NULL,
		content TEXT NOT NULL,
		author  JSONB NOT NULL DEFAULT '[]'::jsonb,
		created TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type postgresPostRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresPostRepository(pool *pgxpool.Pool, timeout time.Duration) PostRepository {
	return &postgresPostRepository{pool: pool, timeout: timeout}
}

// EnsureSchema creates the blog_posts table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create blog_posts table: %w", err)
	}
	return nil
}

func parseUUID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%q: %w", id, model.ErrInvalidPostID)
	}
	return parsed, nil
}

func scanPost(row pgx.Row) (*model.BlogPost, error) {
	var (
		post   model.BlogPost
		id     uuid.UUID
		author []byte
	)
	if err := row.Scan(&id, &post.Title, &post.Content, &author, &post.Created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(author, &post.Author); err != nil {
		return nil, fmt.Errorf("failed to decode author of post %s: %w", id, err)
	}
	post.ID = id.String()
	post.Author = model.CopyAuthors(post.Author)
	post.Created = post.Created.UTC()
	return &post, nil
}

// =====================================================
// FIND
// =====================================================

func (r *postgresPostRepository) FindAll(ctx context.Context) ([]*model.BlogPost, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, author, created
		FROM blog_posts
		ORDER BY created, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*model.BlogPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (r *postgresPostRepository) FindByID(ctx context.Context, id string) (*model.BlogPost, error) {
	postID, err := parseUUID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT id, title, content, author, created
		FROM blog_posts
		WHERE id = $1
	`, postID)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// =====================================================
// INSERT
// =====================================================

func (r *postgresPostRepository) Insert(ctx context.Context, post *model.BlogPost) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate post id: %w", err)
	}
	authors := model.CopyAuthors(post.Author)
	author, err := json.Marshal(authors)
	if err != nil {
		return fmt.Errorf("failed to encode author: %w", err)
	}
	created := now()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err = r.pool.Exec(ctx, `
		INSERT INTO blog_posts (id, title, content, author, created)
		VALUES ($1, $2, $3, $4, $5)
	`, id, post.Title, post.Content, author, created)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	post.ID = id.String()
	post.Author = authors
	post.Created = created
	return nil
}

// =====================================================
// UPDATE
// =====================================================

func (r *postgresPostRepository) UpdateByID(ctx context.Context, id string, update model.PostUpdate) error {
	postID, err := parseUUID(id)
	if err != nil {
		return err
	}

	clauses := []string{}
	args := []any{postID}
	argn := 2

	if update.Title != nil {
		clauses = append(clauses, fmt.Sprintf("title = $%d", argn))
		args = append(args, *update.Title)
		argn++
	}
	if update.Content != nil {
		clauses = append(clauses, fmt.Sprintf("content = $%d", argn))
		args = append(args, *update.Content)
		argn++
	}
	if update.Author != nil {
		author, err := json.Marshal(model.CopyAuthors(*update.Author))
		if err != nil {
			return fmt.Errorf("failed to encode author: %w", err)
		}
		clauses = append(clauses, fmt.Sprintf("author = $%d", argn))
		args = append(args, author)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if len(clauses) == 0 {
		var exists bool
		err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE id = $1)`, postID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}
		if !exists {
			return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
		}
		return nil
	}

	query := "UPDATE blog_posts SET " + strings.Join(clauses, ", ") + " WHERE id = $1"
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
	}
	return nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresPostRepository) DeleteByID(ctx context.Context, id string) error {
	postID, err := parseUUID(id)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%q: %w", id, model.ErrPostNotFound)
	}
	return nil
}
