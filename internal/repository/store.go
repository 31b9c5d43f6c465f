// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Store bundles one repository per entity kind over a shared connection.
type Store struct {
	db *gorm.DB

	Users     UserRepository
	Posts     PostRepository
	Friends   FriendRepository
	Vibes     VibeRepository
	Reactions ReactionRepository
	Badges    BadgeRepository
	Quests    QuestRepository
}

// NewStore builds the repositories over db. Single-entity reads of users and
// posts go through the Redis cache when one is configured.
func NewStore(db *gorm.DB) *Store {
	return newStore(db, true)
}

func newStore(db *gorm.DB, cached bool) *Store {
	return &Store{
		db:        db,
		Users:     &userRepository{db: db, cached: cached},
		Posts:     &postRepository{db: db, cached: cached},
		Friends:   &friendRepository{db: db},
		Vibes:     &vibeRepository{db: db},
		Reactions: &reactionRepository{db: db},
		Badges:    &badgeRepository{db: db},
		Quests:    &questRepository{db: db},
	}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store whose repositories share one database
// transaction. Reads inside the transaction bypass the cache. A Store built
// without a connection (as in unit tests) runs fn directly.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newStore(tx, false))
	})
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505, SQLite "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
