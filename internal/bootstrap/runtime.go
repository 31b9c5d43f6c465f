// Package bootstrap prepares process-wide runtime dependencies.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"vibeshare/internal/cache"
	"vibeshare/internal/config"
	"vibeshare/internal/database"
	"vibeshare/internal/middleware"
	"vibeshare/internal/models"
	"vibeshare/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo data into
// an empty database.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// may result in a nil client if unreachable
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		if err := seedIfEmpty(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(ctx context.Context, db *gorm.DB) error {
	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.InfoContext(ctx, "skipping demo seed, database not empty", slog.Int64("users", users))
		return nil
	}
	_, err := seed.NewSeeder(db).Run(ctx, seed.DefaultPlan)
	return err
}
