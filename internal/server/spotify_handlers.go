package server

import (
	"context"

	"vibeshare/internal/spotify"

	"github.com/gofiber/fiber/v2"
)

// MusicClient is the subset of the Spotify client the handlers use.
type MusicClient interface {
	Profile(ctx context.Context) (*spotify.Profile, error)
	CurrentlyPlaying(ctx context.Context) (*spotify.Playback, error)
	TopTracks(ctx context.Context, limit int) ([]spotify.Track, error)
}

// GetSpotifyProfile handles GET /api/spotify/profile
// @Summary Spotify profile
// @Tags spotify
// @Produce json
// @Success 200 {object} spotify.Profile
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /spotify/profile [get]
func (s *Server) GetSpotifyProfile(c *fiber.Ctx) error {
	profile, err := s.music.Profile(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetCurrentlyPlaying handles GET /api/spotify/currently-playing
// @Summary Currently playing
// @Tags spotify
// @Produce json
// @Success 200 {object} spotify.Playback
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /spotify/currently-playing [get]
func (s *Server) GetCurrentlyPlaying(c *fiber.Ctx) error {
	playback, err := s.music.CurrentlyPlaying(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(playback)
}

// GetTopTracks handles GET /api/spotify/top-tracks
// @Summary Top tracks
// @Tags spotify
// @Produce json
// @Param limit query int false "Number of tracks (default 10, max 50)"
// @Success 200 {array} spotify.Track
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /spotify/top-tracks [get]
func (s *Server) GetTopTracks(c *fiber.Ctx) error {
	tracks, err := s.music.TopTracks(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tracks)
}
