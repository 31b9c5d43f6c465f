package repository

import (
	"context"
	"errors"

	"vibeshare/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friend data operations
type FriendRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id string) (*models.Friendship, error)
	GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 string) (*models.Friendship, error)
	GetAccepted(ctx context.Context, userID string) ([]models.Friendship, error)
	GetPendingRequests(ctx context.Context, userID string) ([]models.Friendship, error)
	UpdateStatus(ctx context.Context, friendshipID string, status models.FriendshipStatus) (*models.Friendship, error)
	IncrementVibeCount(ctx context.Context, friendshipID string) error
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// involving matches friendships where userID is on either side.
func involving(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(user_id = ? OR friend_id = ?)", userID, userID)
	}
}

// betweenPair matches the friendship of two users in either direction.
func betweenPair(userID1, userID2 string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("((user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?))",
			userID1, userID2, userID2, userID1)
	}
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Friendship already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id string) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).First(&friendship, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friendship", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

// GetFriendshipBetweenUsers returns nil, nil when the users have no friendship.
func (r *friendRepository) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 string) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).
		Scopes(betweenPair(userID1, userID2)).
		Order("created_at ASC").
		First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

// GetAccepted returns accepted friendships with userID on either side.
func (r *friendRepository) GetAccepted(ctx context.Context, userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Scopes(involving(userID)).
		Where("status = ?", models.FriendshipStatusAccepted).
		Order("created_at ASC").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return friendships, nil
}

// GetPendingRequests returns pending requests addressed to userID.
func (r *friendRepository) GetPendingRequests(ctx context.Context, userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("friend_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return friendships, nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, friendshipID string, status models.FriendshipStatus) (*models.Friendship, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", friendshipID).
		Update("status", status)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Friendship", friendshipID)
	}
	return r.GetByID(ctx, friendshipID)
}

func (r *friendRepository) IncrementVibeCount(ctx context.Context, friendshipID string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", friendshipID).
		UpdateColumn("vibe_count", gorm.Expr("vibe_count + ?", 1)).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
