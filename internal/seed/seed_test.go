package seed

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"vibeshare/internal/config"
	"vibeshare/internal/database"
	"vibeshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{DBDriver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestBuildPost_TimestampsWithinWindow(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, MaxDays: 5})
	author := &models.User{ID: "author"}

	for i := 0; i < 20; i++ {
		p := f.BuildPost(author)
		assert.Equal(t, "author", p.UserID)
		assert.True(t, p.Mood.Valid())
		assert.NotEmpty(t, p.Content)
		assert.LessOrEqual(t, time.Since(p.CreatedAt), 6*24*time.Hour)
	}
}

func TestBuildUser_ValidUsername(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})
	pattern := regexp.MustCompile(`^[a-z0-9_]{3,30}$`)
	for i := 0; i < 50; i++ {
		u := f.BuildUser(i)
		assert.Regexp(t, pattern, u.Username)
		assert.Equal(t, u.Username+"@example.com", u.Email)
	}
}

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "ann_oconnor7", sanitizeUsername("Ann_O'Connor7"))
	assert.Equal(t, "a__", sanitizeUsername("A"))
	assert.Len(t, sanitizeUsername("abcdefghijklmnopqrstuvwxyz0123456789"), 30)
}

func TestDryRunWritesNothing(t *testing.T) {
	db := newTestDB(t)
	s := NewSeeder(db)
	f := NewFactory(nil, Options{DryRun: true})
	plan := Plan{Users: 4, Posts: 5, FriendsPerUser: 1, VibesPerUser: 1, ReactionsPerPost: 1}

	users, friendships, err := s.SeedSocialMesh(context.Background(), f, plan)
	require.NoError(t, err)
	assert.Len(t, users, 4)
	assert.Len(t, friendships, 4)

	_, _, _, err = s.SeedEngagement(context.Background(), f, plan, users, friendships)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRun_KeepsDerivedCountersConsistent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewSeeder(db)

	res, err := s.Run(ctx, Plan{
		Users:            6,
		Posts:            12,
		FriendsPerUser:   2,
		PendingRatio:     0,
		VibesPerUser:     2,
		ReactionsPerPost: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Users)
	assert.Equal(t, 12, res.Friendships)
	assert.Equal(t, 12, res.Posts)
	assert.Equal(t, 24, res.Vibes)
	assert.Equal(t, 24, res.Reactions)

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		var n int64
		require.NoError(t, db.Model(&models.Reaction{}).Where("post_id = ?", p.ID).Count(&n).Error)
		assert.Equal(t, int(n), p.LikeCount)
	}

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	total := 0
	for _, u := range users {
		var sent int64
		require.NoError(t, db.Model(&models.Vibe{}).Where("sender_id = ?", u.ID).Count(&sent).Error)
		assert.Equal(t, int(sent)*VibePoints, u.Points)
		total += u.Points
	}
	assert.Equal(t, res.Vibes*VibePoints, total)

	var vibeCounts int64
	require.NoError(t, db.Model(&models.Friendship{}).Select("COALESCE(SUM(vibe_count), 0)").Scan(&vibeCounts).Error)
	assert.Equal(t, int64(24), vibeCounts)

	require.NoError(t, s.ClearAll(ctx))
	var remaining int64
	require.NoError(t, db.Model(&models.User{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestPresets(t *testing.T) {
	presets, err := BuiltinPresets()
	require.NoError(t, err)
	assert.Equal(t, []string{"demo", "minimal", "populated"}, presets.Names())
	assert.Equal(t, DefaultPlan, presets["demo"])

	path := filepath.Join(t.TempDir(), "extra.yml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  Tiny:\n    users: 2\n    posts: 1\n"), 0o600))
	merged, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, 2, merged["tiny"].Users)
	assert.Contains(t, merged, "demo")

	_, err = ParsePresets([]byte("presets:\n  bad:\n    users: -1\n"))
	assert.Error(t, err)

	_, err = NewSeeder(newTestDB(t)).ApplyPreset(context.Background(), presets, "nope")
	assert.ErrorContains(t, err, "unknown preset")
}
