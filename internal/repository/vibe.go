package repository

import (
	"context"

	"vibeshare/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VibeRepository defines persistence operations for vibes.
type VibeRepository interface {
	Create(ctx context.Context, vibe *models.Vibe) error
	ListReceived(ctx context.Context, userID string) ([]models.Vibe, error)
	ListBetween(ctx context.Context, userID1, userID2 string) ([]models.Vibe, error)
	CountSent(ctx context.Context, senderID string) (int64, error)
}

type vibeRepository struct {
	db *gorm.DB
}

// NewVibeRepository returns a new VibeRepository implementation.
func NewVibeRepository(db *gorm.DB) VibeRepository {
	return &vibeRepository{db: db}
}

func (r *vibeRepository) Create(ctx context.Context, vibe *models.Vibe) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(vibe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListReceived returns vibes addressed to userID, newest first, with both
// participants preloaded.
func (r *vibeRepository) ListReceived(ctx context.Context, userID string) ([]models.Vibe, error) {
	var vibes []models.Vibe
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Find(&vibes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return vibes, nil
}

// ListBetween returns vibes exchanged by the two users in either direction, newest first.
func (r *vibeRepository) ListBetween(ctx context.Context, userID1, userID2 string) ([]models.Vibe, error) {
	var vibes []models.Vibe
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID1, userID2, userID2, userID1).
		Order("created_at DESC").
		Find(&vibes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return vibes, nil
}

func (r *vibeRepository) CountSent(ctx context.Context, senderID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Vibe{}).Where("sender_id = ?", senderID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
