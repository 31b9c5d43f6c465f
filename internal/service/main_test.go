package service

import (
	"context"
	"testing"
	"time"

	"vibeshare/internal/config"
	"vibeshare/internal/database"
	"vibeshare/internal/featureflags"
	"vibeshare/internal/models"
	"vibeshare/internal/notifications"
	"vibeshare/internal/repository"

	"github.com/stretchr/testify/require"
)

// testEnv wires every service over a private in-memory sqlite store with a
// controllable clock.
type testEnv struct {
	store     *repository.Store
	games     *GamificationService
	users     *UserService
	posts     *PostService
	friends   *FriendService
	reactions *ReactionService
	vibes     *VibeService
	clock     time.Time
}

func newTestEnv(t *testing.T, flags string, notifier *notifications.Notifier) *testEnv {
	t.Helper()
	db, err := database.Connect(&config.Config{DBDriver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := repository.NewStore(db)
	env := &testEnv{
		store: store,
		clock: time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
	}
	env.games = NewGamificationService(store, featureflags.NewManager(flags), notifier, time.UTC)
	env.games.SetClock(func() time.Time { return env.clock })
	env.users = NewUserService(store, env.games)
	env.posts = NewPostService(store.Posts, store.Friends, store.Users)
	env.friends = NewFriendService(store.Friends, store.Users, notifier)
	env.reactions = NewReactionService(store, notifier)
	env.vibes = NewVibeService(store, env.games, notifier)
	return env
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) befriend(t *testing.T, a, b *models.User) *models.Friendship {
	t.Helper()
	f, err := e.friends.RequestFriendship(context.Background(), CreateFriendshipInput{UserID: a.ID, FriendID: b.ID})
	require.NoError(t, err)
	f, err = e.friends.UpdateStatus(context.Background(), f.ID, models.FriendshipStatusAccepted)
	require.NoError(t, err)
	return f
}

// post creates a post stamped one minute after the previous call's.
func (e *testEnv) post(t *testing.T, author *models.User, content string, private bool) *models.Post {
	t.Helper()
	e.clock = e.clock.Add(time.Minute)
	p := &models.Post{UserID: author.ID, Content: content, IsPrivate: private, CreatedAt: e.clock}
	require.NoError(t, e.store.Posts.Create(context.Background(), p))
	return p
}

func (e *testEnv) points(t *testing.T, userID string) int {
	t.Helper()
	u, err := e.store.Users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	return u.Points
}
