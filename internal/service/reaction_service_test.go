package service

import (
	"context"
	"testing"

	"vibeshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReact_ReplacesAndCountsLikes(t *testing.T) {
	env := newTestEnv(t, "", nil)
	ctx := context.Background()
	a := env.register(t, "alice")
	b := env.register(t, "bob")
	post := env.post(t, a, "new track", false)

	r, err := env.reactions.React(ctx, ReactInput{UserID: b.ID, PostID: post.ID})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultReactionType, r.Type)

	_, err = env.reactions.React(ctx, ReactInput{UserID: b.ID, PostID: post.ID, Type: "fire"})
	require.NoError(t, err)
	_, err = env.reactions.React(ctx, ReactInput{UserID: a.ID, PostID: post.ID, Type: "heart"})
	require.NoError(t, err)

	reactions, err := env.reactions.ReactionsOf(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, reactions, 2)
	types := map[string]string{}
	for _, r := range reactions {
		require.NotNil(t, r.User)
		types[r.User.Username] = r.Type
	}
	assert.Equal(t, map[string]string{"bob": "fire", "alice": "heart"}, types)

	got, err := env.store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikeCount)

	require.NoError(t, env.reactions.Unreact(ctx, b.ID, post.ID))
	got, err = env.store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)

	err = env.reactions.Unreact(ctx, b.ID, post.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestReact_UnknownTargets(t *testing.T) {
	env := newTestEnv(t, "", nil)
	ctx := context.Background()
	a := env.register(t, "alice")

	_, err := env.reactions.React(ctx, ReactInput{UserID: a.ID, PostID: "missing"})
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	_, err = env.reactions.ReactionsOf(ctx, "missing")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
