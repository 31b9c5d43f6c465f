package repository

import (
	"context"

	"vibeshare/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeRepository defines persistence operations for badges.
type BadgeRepository interface {
	Award(ctx context.Context, badge *models.Badge) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Badge, error)
}

type badgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository returns a new BadgeRepository implementation.
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

// Award inserts the badge unless the user already holds one of the same
// type, and reports whether a row was written.
func (r *badgeRepository) Award(ctx context.Context, badge *models.Badge) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(badge)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByUser returns the user's badges, most recently earned first.
func (r *badgeRepository) ListByUser(ctx context.Context, userID string) ([]models.Badge, error) {
	var badges []models.Badge
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&badges).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return badges, nil
}
