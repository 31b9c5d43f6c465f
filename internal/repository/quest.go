package repository

import (
	"context"
	"errors"

	"vibeshare/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestRepository defines persistence operations for daily quests.
type QuestRepository interface {
	EnsureForDay(ctx context.Context, quests []models.DailyQuest) error
	ListForDay(ctx context.Context, userID, day string) ([]models.DailyQuest, error)
	GetByID(ctx context.Context, id string) (*models.DailyQuest, error)
	UpdateProgress(ctx context.Context, quest *models.DailyQuest) (bool, error)
}

type questRepository struct {
	db *gorm.DB
}

// NewQuestRepository returns a new QuestRepository implementation.
func NewQuestRepository(db *gorm.DB) QuestRepository {
	return &questRepository{db: db}
}

// EnsureForDay inserts the quests, skipping any (user, type, day) that already exists.
func (r *questRepository) EnsureForDay(ctx context.Context, quests []models.DailyQuest) error {
	if len(quests) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&quests).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *questRepository) ListForDay(ctx context.Context, userID, day string) ([]models.DailyQuest, error) {
	var quests []models.DailyQuest
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND quest_day = ?", userID, day).
		Find(&quests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return quests, nil
}

func (r *questRepository) GetByID(ctx context.Context, id string) (*models.DailyQuest, error) {
	var quest models.DailyQuest
	if err := r.db.WithContext(ctx).First(&quest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("DailyQuest", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &quest, nil
}

// UpdateProgress writes the quest's count and completion flag as long as the
// stored row is still pending. It reports false when the row had already
// been completed by a concurrent writer.
func (r *questRepository) UpdateProgress(ctx context.Context, quest *models.DailyQuest) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DailyQuest{}).
		Where("id = ? AND is_completed = ?", quest.ID, false).
		Updates(map[string]interface{}{
			"current_count": quest.CurrentCount,
			"is_completed":  quest.IsCompleted,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
