package repository

import (
	"context"

	"vibeshare/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines persistence operations for post reactions.
type ReactionRepository interface {
	Create(ctx context.Context, reaction *models.Reaction) error
	DeleteByUserAndPost(ctx context.Context, userID, postID string) (bool, error)
	ListByPost(ctx context.Context, postID string) ([]models.Reaction, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository returns a new ReactionRepository implementation.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(reaction).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Post already reacted to")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteByUserAndPost reports whether a reaction was removed.
func (r *reactionRepository) DeleteByUserAndPost(ctx context.Context, userID, postID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Reaction{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByPost returns the reactions on a post, oldest first, with the reacting user preloaded.
func (r *reactionRepository) ListByPost(ctx context.Context, postID string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&reactions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}

func (r *reactionRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Reaction{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
