// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"vibeshare/internal/middleware"
	"vibeshare/internal/models"
	"vibeshare/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// VibePoints mirrors the reward credited for every vibe sent.
const VibePoints = 10

var (
	moods = []models.Mood{
		models.MoodEnergetic, models.MoodChill, models.MoodHappy,
		models.MoodCreative, models.MoodFocused, models.MoodRelaxed,
	}
	reactionTypes = []string{"like", "like", "like", "fire", "heart", "wow"}
)

// Options tunes generated data.
type Options struct {
	// MaxDays bounds how far back post timestamps are spread.
	MaxDays int
	// PrivateRatio is the share of posts marked private.
	PrivateRatio float64
	// DryRun builds entities with synthetic ids and writes nothing.
	DryRun bool
}

// Factory builds domain entities and persists them through the store.
type Factory struct {
	store *repository.Store
	opts  Options
	rng   *rand.Rand
}

// NewFactory creates a new Factory bound to store. store may be nil when
// opts.DryRun is set.
func NewFactory(store *repository.Store, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		store: store,
		opts:  opts,
		// #nosec G404: acceptable for seeding
		rng: rand.New(rand.NewSource(seed)),
	}
}

// BuildUser constructs a sample user without persisting it. n keeps the
// username unique within one run.
func (f *Factory) BuildUser(n int, overrides ...func(*models.User)) *models.User {
	first := gofakeit.FirstName()
	username := sanitizeUsername(fmt.Sprintf("%s_%s%d", first, gofakeit.LastName(), n))
	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: first,
		Bio:         gofakeit.Sentence(8),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser constructs and persists a sample user.
func (f *Factory) CreateUser(ctx context.Context, n int, overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(n, overrides...)
	if f.opts.DryRun {
		user.ID = uuid.NewString()
		return user, nil
	}
	if err := f.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post by author with a realistic created_at spread.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	daysBack := f.rng.Intn(maxDays)
	minsBack := f.rng.Intn(24 * 60)

	post := &models.Post{
		UserID:    author.ID,
		Content:   gofakeit.Paragraph(1, 2, 8, " "),
		Mood:      moods[f.rng.Intn(len(moods))],
		IsPrivate: f.rng.Float64() < f.opts.PrivateRatio,
		CreatedAt: time.Now().UTC().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minsBack)*time.Minute),
	}
	if f.rng.Float32() < 0.3 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample post.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)
	if f.opts.DryRun {
		post.ID = uuid.NewString()
		return post, nil
	}
	if err := f.store.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateFriendship persists a friendship between two users.
func (f *Factory) CreateFriendship(ctx context.Context, requester, addressee *models.User, status models.FriendshipStatus) (*models.Friendship, error) {
	friendship := &models.Friendship{
		UserID:   requester.ID,
		FriendID: addressee.ID,
		Status:   status,
	}
	if f.opts.DryRun {
		friendship.ID = uuid.NewString()
		return friendship, nil
	}
	if err := f.store.Friends.Create(ctx, friendship); err != nil {
		return nil, err
	}
	return friendship, nil
}

// CreateVibe persists a vibe and credits the sender the way a live send does.
func (f *Factory) CreateVibe(ctx context.Context, sender, receiver *models.User, friendship *models.Friendship) (*models.Vibe, error) {
	vibe := &models.Vibe{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Message:    gofakeit.Sentence(5),
	}
	if f.opts.DryRun {
		vibe.ID = uuid.NewString()
		return vibe, nil
	}
	err := f.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Vibes.Create(ctx, vibe); err != nil {
			return err
		}
		if err := tx.Users.AddPoints(ctx, sender.ID, VibePoints); err != nil {
			return err
		}
		if friendship != nil && friendship.Status == models.FriendshipStatusAccepted {
			return tx.Friends.IncrementVibeCount(ctx, friendship.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vibe, nil
}

// CreateReaction persists a reaction. Like counts are recomputed by the caller.
func (f *Factory) CreateReaction(ctx context.Context, user *models.User, post *models.Post) (*models.Reaction, error) {
	reaction := &models.Reaction{
		UserID: user.ID,
		PostID: post.ID,
		Type:   reactionTypes[f.rng.Intn(len(reactionTypes))],
	}
	if f.opts.DryRun {
		reaction.ID = uuid.NewString()
		return reaction, nil
	}
	if err := f.store.Reactions.Create(ctx, reaction); err != nil {
		return nil, err
	}
	return reaction, nil
}

func sanitizeUsername(raw string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			sb.WriteRune(r)
		}
	}
	name := sb.String()
	if len(name) > 30 {
		name = name[len(name)-30:]
	}
	for len(name) < 3 {
		name += "_"
	}
	return name
}

func logProgress(ctx context.Context, what string, n int) {
	if n > 0 && n%100 == 0 {
		middleware.Logger.InfoContext(ctx, "seeding", slog.String("entity", what), slog.Int("count", n))
	}
}
