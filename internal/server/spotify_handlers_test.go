package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vibeshare/internal/models"
	"vibeshare/internal/spotify"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMusicClient struct {
	mock.Mock
}

func (m *MockMusicClient) Profile(ctx context.Context) (*spotify.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spotify.Profile), args.Error(1)
}

func (m *MockMusicClient) CurrentlyPlaying(ctx context.Context) (*spotify.Playback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spotify.Playback), args.Error(1)
}

func (m *MockMusicClient) TopTracks(ctx context.Context, limit int) ([]spotify.Track, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]spotify.Track), args.Error(1)
}

func TestGetSpotifyProfile(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(m *MockMusicClient)
		expectedStatus int
	}{
		{
			name: "Success",
			mockSetup: func(m *MockMusicClient) {
				m.On("Profile", mock.Anything).Return(&spotify.Profile{ID: "sp1", DisplayName: "Alice"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Not configured",
			mockSetup: func(m *MockMusicClient) {
				m.On("Profile", mock.Anything).Return(nil, models.NewExternalUnavailableError("spotify"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "Upstream failure",
			mockSetup: func(m *MockMusicClient) {
				m.On("Profile", mock.Anything).Return(nil, models.NewExternalError("spotify", errors.New("401")))
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockMusicClient)
			tt.mockSetup(m)
			app := fiber.New()
			s := &Server{music: m}
			app.Get("/spotify/profile", s.GetSpotifyProfile)

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/spotify/profile", nil))
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			m.AssertExpectations(t)
		})
	}
}

func TestGetCurrentlyPlaying(t *testing.T) {
	m := new(MockMusicClient)
	m.On("CurrentlyPlaying", mock.Anything).Return(&spotify.Playback{
		IsPlaying: true,
		Track:     &spotify.Track{Name: "Nightcall", Artists: []string{"Kavinsky"}},
	}, nil)

	app := fiber.New()
	s := &Server{music: m}
	app.Get("/spotify/currently-playing", s.GetCurrentlyPlaying)

	var playback spotify.Playback
	status := doJSON(t, app, http.MethodGet, "/spotify/currently-playing", nil, &playback)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, playback.IsPlaying)
	assert.Equal(t, "Kavinsky", playback.Track.ArtistLine())
}

func TestGetTopTracksPassesLimit(t *testing.T) {
	m := new(MockMusicClient)
	m.On("TopTracks", mock.Anything, 3).Return([]spotify.Track{{Name: "a"}, {Name: "b"}, {Name: "c"}}, nil)
	m.On("TopTracks", mock.Anything, 0).Return([]spotify.Track{}, nil)

	app := fiber.New()
	s := &Server{music: m}
	app.Get("/spotify/top-tracks", s.GetTopTracks)

	var tracks []spotify.Track
	assert.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/spotify/top-tracks?limit=3", nil, &tracks))
	assert.Len(t, tracks, 3)

	assert.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/spotify/top-tracks", nil, &tracks))
	assert.Empty(t, tracks)
	m.AssertExpectations(t)
}

func TestSpotifyRoutesWithoutToken(t *testing.T) {
	_, app := newTestApp(t)

	var body models.ErrorResponse
	status := doJSON(t, app, http.MethodGet, "/api/spotify/top-tracks", nil, &body)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, models.CodeExternalUnavailable, body.Code)
}
