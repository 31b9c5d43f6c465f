package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vibeshare/internal/middleware"
	"vibeshare/internal/models"
	"vibeshare/internal/observability"
	"vibeshare/internal/repository"
	"vibeshare/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultFeedLimit is the page size when the caller names none.
	DefaultFeedLimit = 20
	// MaxFeedLimit caps a single feed page.
	MaxFeedLimit = 100
)

type PostService struct {
	postRepo   repository.PostRepository
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

type CreatePostInput struct {
	UserID    string      `json:"user_id"`
	Content   string      `json:"content"`
	ImageURL  string      `json:"image_url"`
	Mood      models.Mood `json:"mood"`
	IsPrivate bool        `json:"is_private"`
}

func NewPostService(
	postRepo repository.PostRepository,
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateImageURL(in.ImageURL); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Mood != "" && !in.Mood.Valid() {
		return nil, models.NewValidationError("mood must be one of energetic, chill, happy, creative, focused, relaxed")
	}
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:    in.UserID,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Mood:      in.Mood,
		IsPrivate: in.IsPrivate,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// ListUserPosts returns all of the author's posts, private ones included.
func (s *PostService) ListUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.ListByUser(ctx, userID)
}

// Feed returns the newest public posts written by the viewer or any of the
// viewer's accepted friends. Posts whose author cannot be resolved are
// dropped.
func (s *PostService) Feed(ctx context.Context, viewerID string, limit int) (feed []models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "feed", "assemble", attribute.String("viewer_id", viewerID))
	defer func() { observability.EndSpan(span, err) }()
	defer observability.ObserveSince(observability.FeedAssemblyLatency, time.Now())

	limit = NormalizeFeedLimit(limit)

	if _, err := s.userRepo.GetByID(ctx, viewerID); err != nil {
		return nil, err
	}

	friendships, err := s.friendRepo.GetAccepted(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	authors := []string{viewerID}
	seen := map[string]struct{}{viewerID: {}}
	for i := range friendships {
		other := friendships[i].OtherSide(viewerID)
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		authors = append(authors, other)
	}
	span.SetAttributes(attribute.Int("feed.authors", len(authors)))

	posts, err := s.postRepo.ListPublicByAuthors(ctx, authors, limit)
	if err != nil {
		return nil, err
	}

	feed = make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Author == nil {
			observability.FeedItemsDropped.Inc()
			middleware.Logger.WarnContext(ctx, "feed post has no resolvable author",
				slog.String("post_id", p.ID),
				slog.String("author_id", p.UserID))
			continue
		}
		feed = append(feed, p)
	}
	return feed, nil
}

// NormalizeFeedLimit applies the default and the cap.
func NormalizeFeedLimit(limit int) int {
	if limit <= 0 {
		return DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		return MaxFeedLimit
	}
	return limit
}
