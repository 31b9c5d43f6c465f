package service

import (
	"context"
	"testing"

	"vibeshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_SeedsQuestsAndRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t, "", nil)
	ctx := context.Background()

	u, err := env.users.Register(ctx, RegisterInput{Username: "sam", Email: "Sam@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", u.Email)
	assert.Equal(t, "sam", u.DisplayName)
	assert.Zero(t, u.Points)
	assert.Zero(t, u.StreakCount)
	assert.Nil(t, u.LastActiveDate)

	quests, err := env.store.Quests.ListForDay(ctx, u.ID, "2026-04-10")
	require.NoError(t, err)
	assert.Len(t, quests, 3)

	_, err = env.users.Register(ctx, RegisterInput{Username: "sam", Email: "other@example.com"})
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	_, err = env.users.Register(ctx, RegisterInput{Username: "other", Email: "sam@example.com"})
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	_, err = env.users.Register(ctx, RegisterInput{Username: "x", Email: "x@example.com"})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestUpdateProfile_ShallowPatch(t *testing.T) {
	env := newTestEnv(t, "", nil)
	ctx := context.Background()
	u := env.register(t, "sam")
	env.register(t, "taken")

	bio := "lofi all day"
	got, err := env.users.UpdateProfile(ctx, u.ID, UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, got.Bio)
	assert.Equal(t, "sam", got.Username)

	name := "taken"
	_, err = env.users.UpdateProfile(ctx, u.ID, UpdateProfileInput{Username: &name})
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	_, err = env.users.UpdateProfile(ctx, "ghost", UpdateProfileInput{Bio: &bio})
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	got, err = env.users.UpdateSpotify(ctx, u.ID, &models.SpotifySnapshot{CurrentTrack: "Intro", CurrentArtist: "The xx"})
	require.NoError(t, err)
	assert.Equal(t, "The xx", got.SpotifyData.CurrentArtist)

	_, err = env.users.UpdateSpotify(ctx, u.ID, nil)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}
