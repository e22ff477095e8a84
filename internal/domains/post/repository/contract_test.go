package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post/model"
)

// repositoryContract is the behavior every driver shares. newRepo must return
// an empty repository; missingID must return a well-formed id that is not stored.
func repositoryContract(t *testing.T, newRepo func(t *testing.T) PostRepository, missingID func() string) {
	ctx := context.Background()

	samplePost := func() *model.BlogPost {
		return &model.BlogPost{
			Title:   "T",
			Content: "C",
			Author:  []model.Author{{FirstName: "A", LastName: "B"}},
		}
	}

	t.Run("insert assigns id and created", func(t *testing.T) {
		repo := newRepo(t)
		before := time.Now().UTC().Add(-time.Second)

		post := samplePost()
		require.NoError(t, repo.Insert(ctx, post))

		assert.NotEmpty(t, post.ID)
		assert.True(t, post.Created.After(before), "created %v", post.Created)
		assert.Equal(t, time.UTC, post.Created.Location())

		got, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, "T", got.Title)
		assert.Equal(t, "C", got.Content)
		assert.Equal(t, []model.Author{{FirstName: "A", LastName: "B"}}, got.Author)
		assert.True(t, post.Created.Equal(got.Created), "want %v got %v", post.Created, got.Created)
	})

	t.Run("empty author list reads back as empty, not nil", func(t *testing.T) {
		repo := newRepo(t)

		post := &model.BlogPost{Title: "T", Content: "C"}
		require.NoError(t, repo.Insert(ctx, post))

		got, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.Author)
		assert.Empty(t, got.Author)
	})

	t.Run("find all lists oldest first", func(t *testing.T) {
		repo := newRepo(t)

		posts, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)

		var ids []string
		for i := 0; i < 3; i++ {
			p := samplePost()
			require.NoError(t, repo.Insert(ctx, p))
			ids = append(ids, p.ID)
		}

		posts, err = repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		for i, p := range posts {
			assert.Equal(t, ids[i], p.ID)
		}
	})

	t.Run("missing and malformed ids", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindByID(ctx, missingID())
		assert.ErrorIs(t, err, model.ErrPostNotFound)
		assert.ErrorIs(t, repo.UpdateByID(ctx, missingID(), model.PostUpdate{}), model.ErrPostNotFound)
		title := "x"
		assert.ErrorIs(t, repo.UpdateByID(ctx, missingID(), model.PostUpdate{Title: &title}), model.ErrPostNotFound)
		assert.ErrorIs(t, repo.DeleteByID(ctx, missingID()), model.ErrPostNotFound)

		_, err = repo.FindByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, model.ErrInvalidPostID)
		assert.ErrorIs(t, repo.UpdateByID(ctx, "not-an-id", model.PostUpdate{}), model.ErrInvalidPostID)
		assert.ErrorIs(t, repo.DeleteByID(ctx, "not-an-id"), model.ErrInvalidPostID)
	})

	t.Run("update applies only the sent fields", func(t *testing.T) {
		repo := newRepo(t)

		post := samplePost()
		require.NoError(t, repo.Insert(ctx, post))

		title := "U"
		authors := []model.Author{{FirstName: "X", LastName: "Y"}, {FirstName: "Z", LastName: "W"}}
		require.NoError(t, repo.UpdateByID(ctx, post.ID, model.PostUpdate{Title: &title, Author: &authors}))
		// Applying the same update twice leaves the same state
		require.NoError(t, repo.UpdateByID(ctx, post.ID, model.PostUpdate{Title: &title, Author: &authors}))

		got, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "U", got.Title)
		assert.Equal(t, "C", got.Content)
		assert.Equal(t, authors, got.Author)
		assert.True(t, post.Created.Equal(got.Created))

		require.NoError(t, repo.UpdateByID(ctx, post.ID, model.PostUpdate{}))
		again, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, got.Title, again.Title)
	})

	t.Run("update accepts values the create path would reject", func(t *testing.T) {
		repo := newRepo(t)

		post := samplePost()
		require.NoError(t, repo.Insert(ctx, post))

		empty := ""
		require.NoError(t, repo.UpdateByID(ctx, post.ID, model.PostUpdate{Title: &empty}))

		got, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "", got.Title)
	})

	t.Run("delete removes the post", func(t *testing.T) {
		repo := newRepo(t)

		keep, drop := samplePost(), samplePost()
		require.NoError(t, repo.Insert(ctx, keep))
		require.NoError(t, repo.Insert(ctx, drop))

		require.NoError(t, repo.DeleteByID(ctx, drop.ID))

		_, err := repo.FindByID(ctx, drop.ID)
		assert.ErrorIs(t, err, model.ErrPostNotFound)
		assert.ErrorIs(t, repo.DeleteByID(ctx, drop.ID), model.ErrPostNotFound)

		posts, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, keep.ID, posts[0].ID)
	})

	t.Run("returned posts are copies", func(t *testing.T) {
		repo := newRepo(t)

		post := samplePost()
		require.NoError(t, repo.Insert(ctx, post))
		post.Author[0].FirstName = "mutated"

		got, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		got.Title = "mutated"

		again, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "T", again.Title)
		assert.Equal(t, "A", again.Author[0].FirstName)
	})

	t.Run("canceled context", func(t *testing.T) {
		repo := newRepo(t)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.FindAll(canceled)
		assert.Error(t, err)
	})
}
