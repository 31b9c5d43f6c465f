package repository

import (
	"testing"
	"time"

	"vibeshare/internal/config"
	"vibeshare/internal/database"
	"vibeshare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestStore returns a Store over a private in-memory sqlite database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(&config.Config{DBDriver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(db)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func createUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
	}
	require.NoError(t, s.Users.Create(t.Context(), u))
	return u
}

func createPost(t *testing.T, s *Store, author *models.User, private bool, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:    author.ID,
		Content:   "vibing at " + at.Format(time.Kitchen),
		Mood:      models.MoodChill,
		IsPrivate: private,
		CreatedAt: at,
	}
	require.NoError(t, s.Posts.Create(t.Context(), p))
	return p
}
