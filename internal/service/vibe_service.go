package service

import (
	"context"
	"log/slog"
	"strings"

	"vibeshare/internal/cache"
	"vibeshare/internal/middleware"
	"vibeshare/internal/models"
	"vibeshare/internal/notifications"
	"vibeshare/internal/observability"
	"vibeshare/internal/repository"
	"vibeshare/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// VibeService sends vibes and pays the sender for them.
type VibeService struct {
	store    *repository.Store
	games    *GamificationService
	notifier *notifications.Notifier
}

type SendVibeInput struct {
	SenderID   string  `json:"sender_id"`
	ReceiverID string  `json:"receiver_id"`
	PostID     *string `json:"post_id"`
	Message    string  `json:"message"`
}

func NewVibeService(store *repository.Store, games *GamificationService, notifier *notifications.Notifier) *VibeService {
	return &VibeService{store: store, games: games, notifier: notifier}
}

// SendVibe stores the vibe and credits the sender with VibePoints in the
// same transaction. A vibe between accepted friends also bumps the
// friendship's vibe count.
func (s *VibeService) SendVibe(ctx context.Context, in SendVibeInput) (vibe *models.Vibe, err error) {
	ctx, span := observability.StartSpan(ctx, "vibe", "send",
		attribute.String("sender_id", in.SenderID),
		attribute.String("receiver_id", in.ReceiverID),
	)
	defer func() { observability.EndSpan(span, err) }()

	if in.SenderID == "" || in.ReceiverID == "" {
		return nil, models.NewValidationError("sender_id and receiver_id are required")
	}
	if in.SenderID == in.ReceiverID {
		return nil, models.NewValidationError("Cannot send a vibe to yourself")
	}
	in.Message = strings.TrimSpace(in.Message)
	if err := validation.ValidateVibeMessage(in.Message); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.PostID != nil && strings.TrimSpace(*in.PostID) == "" {
		in.PostID = nil
	}

	var sender *models.User
	var earned []*models.Badge
	vibe = &models.Vibe{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		PostID:     in.PostID,
		Message:    in.Message,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		u, err := tx.Users.GetByID(ctx, in.SenderID)
		if err != nil {
			return err
		}
		sender = u
		if _, err := tx.Users.GetByID(ctx, in.ReceiverID); err != nil {
			return err
		}
		if in.PostID != nil {
			if _, err := tx.Posts.GetByID(ctx, *in.PostID); err != nil {
				return err
			}
		}

		if err := tx.Vibes.Create(ctx, vibe); err != nil {
			return err
		}
		if err := tx.Users.AddPoints(ctx, in.SenderID, models.VibePoints); err != nil {
			return err
		}

		friendship, err := tx.Friends.GetFriendshipBetweenUsers(ctx, in.SenderID, in.ReceiverID)
		if err != nil {
			return err
		}
		if friendship != nil && friendship.Status == models.FriendshipStatusAccepted {
			if err := tx.Friends.IncrementVibeCount(ctx, friendship.ID); err != nil {
				return err
			}
		}

		sent, err := tx.Vibes.CountSent(ctx, in.SenderID)
		if err != nil {
			return err
		}
		if sent == 1 {
			badge, err := s.games.awardBadge(ctx, tx, in.SenderID, models.BadgeFirstVibe)
			if err != nil {
				return err
			}
			if badge != nil {
				earned = append(earned, badge)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateUser(ctx, in.SenderID)
	observability.VibesSent.Inc()
	observability.PointsAwarded.WithLabelValues(observability.ReasonVibeSent).Add(models.VibePoints)
	middleware.Logger.InfoContext(ctx, "vibe sent",
		slog.String("vibe_id", vibe.ID),
		slog.String("receiver_id", in.ReceiverID))

	s.games.announceBadges(ctx, earned)
	s.notifier.PublishEvent(ctx, in.ReceiverID, notifications.EventVibeReceived, map[string]interface{}{
		"vibe_id": vibe.ID,
		"from":    userSummary(sender),
		"message": vibe.Message,
		"post_id": vibe.PostID,
	})
	return vibe, nil
}

// Received lists vibes sent to the user, newest first.
func (s *VibeService) Received(ctx context.Context, userID string) ([]models.Vibe, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Vibes.ListReceived(ctx, userID)
}

// Between lists vibes exchanged by two users in either direction, newest first.
func (s *VibeService) Between(ctx context.Context, userID, otherID string) ([]models.Vibe, error) {
	return s.store.Vibes.ListBetween(ctx, userID, otherID)
}
