package seed

import (
	"context"
	"fmt"
	"log/slog"

	"vibeshare/internal/middleware"
	"vibeshare/internal/models"
	"vibeshare/internal/repository"

	"gorm.io/gorm"
)

// Plan sizes one seeding run.
type Plan struct {
	Users            int     `yaml:"users"`
	Posts            int     `yaml:"posts"`
	FriendsPerUser   int     `yaml:"friends_per_user"`
	PendingRatio     float64 `yaml:"pending_ratio"`
	VibesPerUser     int     `yaml:"vibes_per_user"`
	ReactionsPerPost int     `yaml:"reactions_per_post"`
	PrivateRatio     float64 `yaml:"private_ratio"`
	MaxDays          int     `yaml:"max_days"`
}

// DefaultPlan is used for SEED_DEMO_DATA and by the seed command without a preset.
var DefaultPlan = Plan{
	Users:            20,
	Posts:            80,
	FriendsPerUser:   3,
	PendingRatio:     0.2,
	VibesPerUser:     2,
	ReactionsPerPost: 3,
	PrivateRatio:     0.1,
	MaxDays:          14,
}

// Result counts what a run created.
type Result struct {
	Users       int
	Friendships int
	Posts       int
	Vibes       int
	Reactions   int
}

// Seeder populates the database with a social mesh and engagement on top of it.
type Seeder struct {
	db    *gorm.DB
	store *repository.Store
}

// NewSeeder returns a Seeder writing through db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, store: repository.NewStore(db)}
}

// ClearAll deletes every row, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "clearing existing data")
	for _, model := range []interface{}{
		&models.Reaction{},
		&models.Vibe{},
		&models.Badge{},
		&models.DailyQuest{},
		&models.Post{},
		&models.Friendship{},
		&models.User{},
	} {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run executes plan and logs a summary.
func (s *Seeder) Run(ctx context.Context, plan Plan) (Result, error) {
	var res Result
	f := NewFactory(s.store, Options{MaxDays: plan.MaxDays, PrivateRatio: plan.PrivateRatio})

	users, friendships, err := s.SeedSocialMesh(ctx, f, plan)
	if err != nil {
		return res, fmt.Errorf("social mesh: %w", err)
	}
	res.Users = len(users)
	res.Friendships = len(friendships)

	res.Posts, res.Vibes, res.Reactions, err = s.SeedEngagement(ctx, f, plan, users, friendships)
	if err != nil {
		return res, fmt.Errorf("engagement: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "database seeding completed",
		slog.Int("users", res.Users),
		slog.Int("friendships", res.Friendships),
		slog.Int("posts", res.Posts),
		slog.Int("vibes", res.Vibes),
		slog.Int("reactions", res.Reactions))
	return res, nil
}

// SeedSocialMesh creates plan.Users users and links each to up to
// plan.FriendsPerUser neighbours on a ring, so every pair appears at most once.
func (s *Seeder) SeedSocialMesh(ctx context.Context, f *Factory, plan Plan) ([]*models.User, []*models.Friendship, error) {
	users := make([]*models.User, 0, plan.Users)
	for i := 0; i < plan.Users; i++ {
		u, err := f.CreateUser(ctx, i)
		if err != nil {
			return nil, nil, err
		}
		users = append(users, u)
		logProgress(ctx, "users", len(users))
	}

	var friendships []*models.Friendship
	n := len(users)
	span := plan.FriendsPerUser
	if span > (n-1)/2 {
		span = (n - 1) / 2
	}
	for i := 0; i < n; i++ {
		for step := 1; step <= span; step++ {
			status := models.FriendshipStatusAccepted
			if f.rng.Float64() < plan.PendingRatio {
				status = models.FriendshipStatusPending
			}
			fs, err := f.CreateFriendship(ctx, users[i], users[(i+step)%n], status)
			if err != nil {
				return nil, nil, err
			}
			friendships = append(friendships, fs)
		}
	}
	return users, friendships, nil
}

// SeedEngagement adds posts, vibes along friendships and reactions, then
// recomputes like counts so they match the reaction rows.
func (s *Seeder) SeedEngagement(
	ctx context.Context, f *Factory, plan Plan, users []*models.User, friendships []*models.Friendship,
) (posts, vibes, reactions int, err error) {
	if len(users) == 0 {
		return 0, 0, 0, nil
	}

	created := make([]*models.Post, 0, plan.Posts)
	for i := 0; i < plan.Posts; i++ {
		p, err := f.CreatePost(ctx, users[f.rng.Intn(len(users))])
		if err != nil {
			return 0, 0, 0, err
		}
		created = append(created, p)
		logProgress(ctx, "posts", len(created))
	}

	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, fs := range friendships {
		for i := 0; i < plan.VibesPerUser; i++ {
			sender, receiver := byID[fs.UserID], byID[fs.FriendID]
			if i%2 == 1 {
				sender, receiver = receiver, sender
			}
			if _, err := f.CreateVibe(ctx, sender, receiver, fs); err != nil {
				return 0, 0, 0, err
			}
			vibes++
		}
	}

	for _, p := range created {
		want := plan.ReactionsPerPost
		if want > len(users)-1 {
			want = len(users) - 1
		}
		for _, idx := range f.rng.Perm(len(users)) {
			if want == 0 {
				break
			}
			if users[idx].ID == p.UserID {
				continue
			}
			if _, err := f.CreateReaction(ctx, users[idx], p); err != nil {
				return 0, 0, 0, err
			}
			reactions++
			want--
		}
		if !f.opts.DryRun {
			count, err := s.store.Reactions.CountByPost(ctx, p.ID)
			if err != nil {
				return 0, 0, 0, err
			}
			if err := s.store.Posts.SetLikeCount(ctx, p.ID, int(count)); err != nil {
				return 0, 0, 0, err
			}
		}
	}

	return len(created), vibes, reactions, nil
}
