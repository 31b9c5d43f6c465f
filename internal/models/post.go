package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mood tags a post with how its author feels.
type Mood string

const (
	MoodEnergetic Mood = "energetic"
	MoodChill     Mood = "chill"
	MoodHappy     Mood = "happy"
	MoodCreative  Mood = "creative"
	MoodFocused   Mood = "focused"
	MoodRelaxed   Mood = "relaxed"
)

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodEnergetic, MoodChill, MoodHappy, MoodCreative, MoodFocused, MoodRelaxed:
		return true
	}
	return false
}

// Post represents a mood-tagged status update.
type Post struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"size:36;not null;index" json:"user_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	ImageURL     string    `json:"image_url,omitempty"`
	Mood         Mood      `gorm:"size:20" json:"mood,omitempty"`
	IsPrivate    bool      `gorm:"not null;default:false;index" json:"is_private"`
	LikeCount    int       `gorm:"not null;default:0" json:"like_count"`
	CommentCount int       `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	// Author is populated on feed reads.
	Author *User `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
