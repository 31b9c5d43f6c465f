package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Badge types awarded automatically.
const (
	BadgeStreakMaster  = "streak_master"
	BadgeFirstVibe     = "first_vibe"
	BadgeQuestChampion = "quest_champion"
)

// Badge is an achievement held by a user. Badges are only ever appended.
type Badge struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex:idx_badge_user_type" json:"user_id"`
	Type        string    `gorm:"size:64;not null;uniqueIndex:idx_badge_user_type" json:"type"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	EarnedAt    time.Time `gorm:"not null;index" json:"earned_at"`
}

func (b *Badge) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.EarnedAt.IsZero() {
		b.EarnedAt = time.Now().UTC()
	}
	return nil
}
