package service

import (
	"context"
	"testing"
	"time"

	"vibeshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questOfType(t *testing.T, quests []models.DailyQuest, qt models.QuestType) models.DailyQuest {
	t.Helper()
	for _, q := range quests {
		if q.Type == qt {
			return q
		}
	}
	t.Fatalf("quest %s not found", qt)
	return models.DailyQuest{}
}

func TestDailyQuests_LazyAndIdempotent(t *testing.T) {
	env := newTestEnv(t, "", nil)
	ctx := context.Background()
	u := env.register(t, "quester")

	first, err := env.games.DailyQuests(ctx, u.ID, "")
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, models.QuestShareVibes, first[0].Type)
	assert.Equal(t, models.QuestReactPosts, first[1].Type)
	assert.Equal(t, models.QuestCreatePost, first[2].Type)
	assert.Equal(t, "2026-04-10", first[0].QuestDay)

	again, err := env.games.DailyQuests(ctx, u.ID, "2026-04-10")
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, first[0].ID, again[0].ID)

	other, err := env.games.DailyQuests(ctx, u.ID, "2026-04-11")
	require.NoError(t, err)
	require.Len(t, other, 3)
	assert.NotEqual(t, first[0].ID, other[0].ID)

	_, err = env.games.DailyQuests(ctx, u.ID, "April 10")
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = env.games.DailyQuests(ctx, "ghost", "")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestUpdateProgress_ClampsAndAwardsOnce(t *testing.T) {
	env := newTestEnv(t, "auto_badges=on", nil)
	ctx := context.Background()
	u := env.register(t, "quester")

	quests, err := env.games.DailyQuests(ctx, u.ID, "")
	require.NoError(t, err)
	share := questOfType(t, quests, models.QuestShareVibes)

	q, err := env.games.UpdateProgress(ctx, share.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, q.CurrentCount)
	assert.False(t, q.IsCompleted)

	q, err = env.games.UpdateProgress(ctx, share.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, q.CurrentCount)
	assert.False(t, q.IsCompleted)
	assert.Equal(t, 0, env.points(t, u.ID))

	q, err = env.games.UpdateProgress(ctx, share.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 3, q.CurrentCount)
	assert.True(t, q.IsCompleted)
	assert.Equal(t, 50, env.points(t, u.ID))

	// completed is terminal
	q, err = env.games.UpdateProgress(ctx, share.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, q.CurrentCount)
	assert.True(t, q.IsCompleted)
	assert.Equal(t, 50, env.points(t, u.ID))

	create := questOfType(t, quests, models.QuestCreatePost)
	_, err = env.games.UpdateProgress(ctx, create.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 90, env.points(t, u.ID))

	badges, err := env.games.Badges(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeQuestChampion, badges[0].Type)

	_, err = env.games.UpdateProgress(ctx, "missing", 1)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestUpdateProgress_NoBadgesWhenFlagOff(t *testing.T) {
	env := newTestEnv(t, "auto_badges=off", nil)
	ctx := context.Background()
	u := env.register(t, "quester")

	quests, err := env.games.DailyQuests(ctx, u.ID, "")
	require.NoError(t, err)
	_, err = env.games.UpdateProgress(ctx, questOfType(t, quests, models.QuestCreatePost).ID, 1)
	require.NoError(t, err)

	badges, err := env.games.Badges(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, badges)
	assert.Equal(t, 40, env.points(t, u.ID))
}

func TestLogin_StreakProgression(t *testing.T) {
	env := newTestEnv(t, "auto_badges=on", nil)
	ctx := context.Background()
	env.register(t, "streaker")

	u, err := env.users.Login(ctx, "streaker")
	require.NoError(t, err)
	assert.Equal(t, 1, u.StreakCount)
	require.NotNil(t, u.LastActiveDate)

	env.clock = env.clock.Add(3 * time.Hour)
	u, err = env.users.Login(ctx, "streaker@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, u.StreakCount, "same day does not advance")

	for day := 2; day <= StreakMasterDays; day++ {
		env.clock = env.clock.AddDate(0, 0, 1)
		u, err = env.users.Login(ctx, "streaker")
		require.NoError(t, err)
		assert.Equal(t, day, u.StreakCount)
	}

	badges, err := env.games.Badges(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeStreakMaster, badges[0].Type)

	env.clock = env.clock.AddDate(0, 0, 3)
	u, err = env.users.Login(ctx, "streaker")
	require.NoError(t, err)
	assert.Equal(t, 1, u.StreakCount, "gap resets")

	_, err = env.users.Login(ctx, "nobody")
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))
}
