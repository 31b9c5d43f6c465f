package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a pending friendship request.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship request.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
	// FriendshipStatusBlocked indicates a blocked friendship.
	FriendshipStatusBlocked FriendshipStatus = "blocked"
)

// Valid reports whether s is a known friendship status.
func (s FriendshipStatus) Valid() bool {
	switch s {
	case FriendshipStatusPending, FriendshipStatusAccepted, FriendshipStatusBlocked:
		return true
	}
	return false
}

// Friendship links two users. UserID is the requester and FriendID the
// addressee; lookups treat the pair as unordered.
type Friendship struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;not null;uniqueIndex:idx_friendship_users" json:"user_id"`
	FriendID  string           `gorm:"size:36;not null;uniqueIndex:idx_friendship_users;index" json:"friend_id"`
	Status    FriendshipStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_friendships_status" json:"status"`
	VibeCount int              `gorm:"not null;default:0" json:"vibe_count"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Friend is the counterpart of the viewing user, set by friend-list reads.
	Friend *User `gorm:"-" json:"friend,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// OtherSide returns the id of the participant that is not userID.
func (f *Friendship) OtherSide(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// Involves reports whether userID is one of the two participants.
func (f *Friendship) Involves(userID string) bool {
	return f.UserID == userID || f.FriendID == userID
}
