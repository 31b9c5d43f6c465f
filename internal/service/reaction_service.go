package service

import (
	"context"
	"strings"

	"vibeshare/internal/cache"
	"vibeshare/internal/models"
	"vibeshare/internal/notifications"
	"vibeshare/internal/repository"
	"vibeshare/internal/validation"
)

// ReactionService manages post reactions and keeps like counts in step.
type ReactionService struct {
	store    *repository.Store
	notifier *notifications.Notifier
}

type ReactInput struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
	Type   string `json:"type"`
}

func NewReactionService(store *repository.Store, notifier *notifications.Notifier) *ReactionService {
	return &ReactionService{store: store, notifier: notifier}
}

// React records the user's reaction to a post, replacing any earlier one.
func (s *ReactionService) React(ctx context.Context, in ReactInput) (*models.Reaction, error) {
	in.Type = strings.TrimSpace(in.Type)
	if in.Type == "" {
		in.Type = models.DefaultReactionType
	}
	if err := validation.ValidateReactionType(in.Type); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var post *models.Post
	reaction := &models.Reaction{UserID: in.UserID, PostID: in.PostID, Type: in.Type}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.GetByID(ctx, in.UserID); err != nil {
			return err
		}
		p, err := tx.Posts.GetByID(ctx, in.PostID)
		if err != nil {
			return err
		}
		post = p

		if _, err := tx.Reactions.DeleteByUserAndPost(ctx, in.UserID, in.PostID); err != nil {
			return err
		}
		if err := tx.Reactions.Create(ctx, reaction); err != nil {
			return err
		}
		return recountLikes(ctx, tx, in.PostID)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, in.PostID)

	if post.UserID != in.UserID {
		s.notifier.PublishEvent(ctx, post.UserID, notifications.EventPostReacted, map[string]interface{}{
			"post_id": in.PostID,
			"user_id": in.UserID,
			"type":    reaction.Type,
		})
	}
	return reaction, nil
}

// Unreact removes the user's reaction from a post.
func (s *ReactionService) Unreact(ctx context.Context, userID, postID string) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		removed, err := tx.Reactions.DeleteByUserAndPost(ctx, userID, postID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewNotFoundError("Reaction", userID+"/"+postID)
		}
		return recountLikes(ctx, tx, postID)
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// ReactionsOf lists a post's reactions with the reacting users.
func (s *ReactionService) ReactionsOf(ctx context.Context, postID string) ([]models.Reaction, error) {
	if _, err := s.store.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.Reactions.ListByPost(ctx, postID)
}

func recountLikes(ctx context.Context, tx *repository.Store, postID string) error {
	count, err := tx.Reactions.CountByPost(ctx, postID)
	if err != nil {
		return err
	}
	return tx.Posts.SetLikeCount(ctx, postID, int(count))
}
