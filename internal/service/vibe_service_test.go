package service

import (
	"context"
	"testing"
	"time"

	"vibeshare/internal/models"
	"vibeshare/internal/notifications"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendVibe_AwardsTenPoints(t *testing.T) {
	env := newTestEnv(t, "auto_badges=on", nil)
	ctx := context.Background()
	a := env.register(t, "alice")
	b := env.register(t, "bob")
	f := env.befriend(t, a, b)

	vibe, err := env.vibes.SendVibe(ctx, SendVibeInput{SenderID: a.ID, ReceiverID: b.ID, Message: "I have a vibe with you"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, vibe.SenderID)
	assert.Equal(t, b.ID, vibe.ReceiverID)
	assert.Equal(t, "I have a vibe with you", vibe.Message)
	assert.Equal(t, models.VibePoints, env.points(t, a.ID))
	assert.Equal(t, 0, env.points(t, b.ID))

	received, err := env.vibes.Received(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.NotNil(t, received[0].Sender)
	assert.Equal(t, "alice", received[0].Sender.Username)

	_, err = env.vibes.SendVibe(ctx, SendVibeInput{SenderID: a.ID, ReceiverID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, 2*models.VibePoints, env.points(t, a.ID))

	friendship, err := env.store.Friends.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, friendship.VibeCount)

	badges, err := env.games.Badges(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeFirstVibe, badges[0].Type)

	between, err := env.vibes.Between(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, between, 2)
}

func TestSendVibe_NonFriendsLeaveVibeCount(t *testing.T) {
	env := newTestEnv(t, "", nil)
	ctx := context.Background()
	a := env.register(t, "alice")
	b := env.register(t, "bob")

	pending, err := env.friends.RequestFriendship(ctx, CreateFriendshipInput{UserID: a.ID, FriendID: b.ID})
	require.NoError(t, err)

	_, err = env.vibes.SendVibe(ctx, SendVibeInput{SenderID: a.ID, ReceiverID: b.ID})
	require.NoError(t, err)

	got, err := env.store.Friends.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Zero(t, got.VibeCount)
}

func TestSendVibe_FailuresAwardNothing(t *testing.T) {
	env := newTestEnv(t, "", nil)
	ctx := context.Background()
	a := env.register(t, "alice")
	missingPost := "no-such-post"

	tests := []struct {
		name string
		in   SendVibeInput
		code string
	}{
		{"self vibe", SendVibeInput{SenderID: a.ID, ReceiverID: a.ID}, models.CodeValidation},
		{"missing receiver", SendVibeInput{SenderID: a.ID, ReceiverID: "ghost"}, models.CodeNotFound},
		{"missing sender", SendVibeInput{SenderID: "ghost", ReceiverID: a.ID}, models.CodeNotFound},
		{"missing post", SendVibeInput{SenderID: a.ID, ReceiverID: env.register(t, "bob").ID, PostID: &missingPost}, models.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.vibes.SendVibe(ctx, tt.in)
			assert.Equal(t, tt.code, models.ErrorCode(err))
		})
	}

	assert.Zero(t, env.points(t, a.ID))
	n, err := env.store.Vibes.CountSent(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSendVibe_PublishesToReceiver(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	notifier := notifications.NewNotifier(rdb)
	env := newTestEnv(t, "", notifier)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := env.register(t, "alice")
	b := env.register(t, "bob")

	events := make(chan notifications.Event, 4)
	require.NoError(t, notifier.StartPatternSubscriber(ctx, func(channel, payload string) {
		if channel != notifications.UserChannel(b.ID) {
			return
		}
		ev, err := notifications.DecodeEvent(payload)
		if err == nil {
			events <- ev
		}
	}))

	_, err = env.vibes.SendVibe(context.Background(), SendVibeInput{SenderID: a.ID, ReceiverID: b.ID, Message: "hey"})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, notifications.EventVibeReceived, ev.Type)
		assert.Equal(t, "hey", ev.Payload["message"])
	case <-time.After(time.Second):
		t.Fatal("receiver was not notified")
	}
}
