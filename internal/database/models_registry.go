package database

import "vibeshare/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Friendship{},
		&models.Vibe{},
		&models.Reaction{},
		&models.Badge{},
		&models.DailyQuest{},
	}
}
