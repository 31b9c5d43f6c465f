package repository

import (
	"context"
	"testing"
	"time"

	"vibeshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Integration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	carol := createUser(t, s, "carol")

	base := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	older := createPost(t, s, alice, false, base)
	hidden := createPost(t, s, alice, true, base.Add(time.Minute))
	newer := createPost(t, s, bob, false, base.Add(2*time.Minute))
	createPost(t, s, carol, false, base.Add(3*time.Minute))

	t.Run("ListPublicByAuthors orders newest first and skips private", func(t *testing.T) {
		posts, err := s.Posts.ListPublicByAuthors(ctx, []string{alice.ID, bob.ID}, 20)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, newer.ID, posts[0].ID)
		assert.Equal(t, older.ID, posts[1].ID)
		require.NotNil(t, posts[0].Author)
		assert.Equal(t, "bob", posts[0].Author.Username)
	})

	t.Run("ListPublicByAuthors honors limit", func(t *testing.T) {
		posts, err := s.Posts.ListPublicByAuthors(ctx, []string{alice.ID, bob.ID, carol.ID}, 1)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("ListPublicByAuthors with no authors", func(t *testing.T) {
		posts, err := s.Posts.ListPublicByAuthors(ctx, nil, 20)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("ListByUser includes private posts", func(t *testing.T) {
		posts, err := s.Posts.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, hidden.ID, posts[0].ID)
	})

	t.Run("SetLikeCount", func(t *testing.T) {
		require.NoError(t, s.Posts.SetLikeCount(ctx, older.ID, 3))
		got, err := s.Posts.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.LikeCount)

		err = s.Posts.SetLikeCount(ctx, "missing", 1)
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	})

	t.Run("GetByID missing", func(t *testing.T) {
		_, err := s.Posts.GetByID(ctx, "missing")
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	})
}
