package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultReactionType is used when a reaction names no type.
const DefaultReactionType = "like"

// Reaction is a user's single reaction to a post. A user holds at most one
// reaction per post.
type Reaction struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_reaction_user_post" json:"user_id"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_reaction_user_post;index" json:"post_id"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (r *Reaction) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
