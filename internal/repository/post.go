package repository

import (
	"context"
	"errors"

	"vibeshare/internal/cache"
	"vibeshare/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	ListPublicByAuthors(ctx context.Context, authorIDs []string, limit int) ([]models.Post, error)
	SetLikeCount(ctx context.Context, postID string, count int) error
}

type postRepository struct {
	db     *gorm.DB
	cached bool
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, cached: true}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	load := func() error {
		if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if r.cached {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByUser returns every post of the author, private ones included, newest first.
func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListPublicByAuthors returns up to limit public posts written by any of
// authorIDs, newest first, with the author preloaded.
func (r *postRepository) ListPublicByAuthors(ctx context.Context, authorIDs []string, limit int) ([]models.Post, error) {
	var posts []models.Post
	if len(authorIDs) == 0 {
		return posts, nil
	}
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("user_id IN ? AND is_private = ?", authorIDs, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) SetLikeCount(ctx context.Context, postID string, count int) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).UpdateColumn("like_count", count)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}
