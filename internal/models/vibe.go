package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VibePoints is what a sender earns for every vibe.
const VibePoints = 10

// Vibe is a lightweight "I have a vibe with you" signal between two users.
// Vibes are never edited.
type Vibe struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	SenderID   string    `gorm:"size:36;not null;index" json:"sender_id"`
	ReceiverID string    `gorm:"size:36;not null;index" json:"receiver_id"`
	PostID     *string   `gorm:"size:36" json:"post_id,omitempty"`
	Message    string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

func (v *Vibe) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
