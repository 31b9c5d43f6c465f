// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SpotifySnapshot is the last music state a user shared from Spotify.
type SpotifySnapshot struct {
	CurrentTrack  string   `json:"current_track,omitempty"`
	CurrentArtist string   `json:"current_artist,omitempty"`
	TopTracks     []string `json:"top_tracks,omitempty"`
}

// User represents a member of the vibe network.
type User struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	Username       string           `gorm:"uniqueIndex;not null" json:"username"`
	Email          string           `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName    string           `gorm:"not null" json:"display_name"`
	Avatar         string           `json:"avatar,omitempty"`
	Bio            string           `json:"bio,omitempty"`
	StreakCount    int              `gorm:"not null;default:0" json:"streak_count"`
	Points         int              `gorm:"not null;default:0" json:"points"`
	LastActiveDate *time.Time       `json:"last_active_date"`
	SpotifyData    *SpotifySnapshot `gorm:"serializer:json;type:text" json:"spotify_data"`
	CreatedAt      time.Time        `json:"created_at"`
}

// BeforeCreate assigns an opaque identifier when none was supplied.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
