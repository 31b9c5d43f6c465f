package repository

import (
	"context"
	"errors"
	"time"

	"vibeshare/internal/cache"
	"vibeshare/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (*models.User, error)
	UpdateSpotify(ctx context.Context, id string, data *models.SpotifySnapshot) (*models.User, error)
	UpdateActivity(ctx context.Context, id string, streak int, lastActive time.Time) error
	AddPoints(ctx context.Context, id string, delta int) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db     *gorm.DB
	cached bool
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, cached: true}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	load := func() error {
		if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if r.cached {
		err = cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return r.findOne(ctx, "email = ? OR username = ?", email, username)
}

// findOne returns nil, nil when no user matches.
func (r *userRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id string, changes map[string]interface{}) (*models.User, error) {
	if err := r.exists(ctx, id); err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			if isUniqueConstraintError(err) {
				return nil, models.NewConflictError("Username or email already taken")
			}
			return nil, models.NewInternalError(err)
		}
		cache.InvalidateUser(ctx, id)
	}
	return r.reload(ctx, id)
}

func (r *userRepository) UpdateSpotify(ctx context.Context, id string, data *models.SpotifySnapshot) (*models.User, error) {
	if err := r.exists(ctx, id); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.User{ID: id}).
		Select("SpotifyData").
		Updates(&models.User{SpotifyData: data}).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return r.reload(ctx, id)
}

func (r *userRepository) UpdateActivity(ctx context.Context, id string, streak int, lastActive time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"streak_count":     streak,
		"last_active_date": lastActive,
	})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// AddPoints increments the user's points atomically in SQL.
func (r *userRepository) AddPoints(ctx context.Context, id string, delta int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) exists(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) reload(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}
