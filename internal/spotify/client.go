// Package spotify is a small read-only client for the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vibeshare/internal/models"
	"vibeshare/internal/observability"

	"github.com/tidwall/gjson"
)

const serviceName = "spotify"

const (
	defaultTopTracks = 10
	maxTopTracks     = 50
	maxBodyBytes     = 1 << 20
)

// Profile is the connected account.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
	Followers   int64  `json:"followers"`
	ImageURL    string `json:"image_url,omitempty"`
	ProfileURL  string `json:"profile_url,omitempty"`
}

// Track is a condensed track object.
type Track struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Artists       []string `json:"artists"`
	Album         string   `json:"album"`
	AlbumImageURL string   `json:"album_image_url,omitempty"`
	DurationMs    int64    `json:"duration_ms"`
	ExternalURL   string   `json:"external_url,omitempty"`
	PreviewURL    string   `json:"preview_url,omitempty"`
}

// ArtistLine joins the track's artists for display.
func (t Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// Playback is what the account is playing right now.
type Playback struct {
	IsPlaying  bool   `json:"is_playing"`
	ProgressMs int64  `json:"progress_ms"`
	Track      *Track `json:"track,omitempty"`
}

// Client calls the Web API with a pre-issued bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a client for baseURL. An empty token yields a client
// whose calls all fail with EXTERNAL_UNAVAILABLE.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a token is present.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

// Profile returns the connected account.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	body, _, err := c.get(ctx, "profile", "/me", nil)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(body)
	return &Profile{
		ID:          doc.Get("id").String(),
		DisplayName: doc.Get("display_name").String(),
		Email:       doc.Get("email").String(),
		Country:     doc.Get("country").String(),
		Product:     doc.Get("product").String(),
		Followers:   doc.Get("followers.total").Int(),
		ImageURL:    doc.Get("images.0.url").String(),
		ProfileURL:  doc.Get("external_urls.spotify").String(),
	}, nil
}

// CurrentlyPlaying returns the active playback. Nothing playing is not an error.
func (c *Client) CurrentlyPlaying(ctx context.Context) (*Playback, error) {
	body, status, err := c.get(ctx, "currently_playing", "/me/player/currently-playing", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || len(body) == 0 {
		return &Playback{}, nil
	}

	doc := gjson.ParseBytes(body)
	playback := &Playback{
		IsPlaying:  doc.Get("is_playing").Bool(),
		ProgressMs: doc.Get("progress_ms").Int(),
	}
	if item := doc.Get("item"); item.Exists() && item.Type != gjson.Null {
		track := parseTrack(item)
		playback.Track = &track
	}
	return playback, nil
}

// TopTracks returns up to limit of the account's top tracks (default 10, max 50).
func (c *Client) TopTracks(ctx context.Context, limit int) ([]Track, error) {
	if limit <= 0 {
		limit = defaultTopTracks
	}
	if limit > maxTopTracks {
		limit = maxTopTracks
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	body, _, err := c.get(ctx, "top_tracks", "/me/top/tracks", q)
	if err != nil {
		return nil, err
	}

	items := gjson.GetBytes(body, "items").Array()
	tracks := make([]Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, parseTrack(item))
	}
	return tracks, nil
}

func parseTrack(item gjson.Result) Track {
	t := Track{
		ID:            item.Get("id").String(),
		Name:          item.Get("name").String(),
		Album:         item.Get("album.name").String(),
		AlbumImageURL: item.Get("album.images.0.url").String(),
		DurationMs:    item.Get("duration_ms").Int(),
		ExternalURL:   item.Get("external_urls.spotify").String(),
		PreviewURL:    item.Get("preview_url").String(),
	}
	for _, a := range item.Get("artists.#.name").Array() {
		t.Artists = append(t.Artists, a.String())
	}
	return t
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) (body []byte, status int, err error) {
	if !c.Configured() {
		observability.ExternalRequests.WithLabelValues(serviceName, endpoint, "unconfigured").Inc()
		return nil, 0, models.NewExternalUnavailableError("Spotify")
	}

	ctx, span := observability.StartClientSpan(ctx, serviceName, endpoint)
	defer func() { observability.EndSpan(span, err) }()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, models.NewExternalError("Spotify", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		observability.ExternalRequests.WithLabelValues(serviceName, endpoint, "error").Inc()
		return nil, 0, models.NewExternalError("Spotify", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		observability.ExternalRequests.WithLabelValues(serviceName, endpoint, "error").Inc()
		return nil, resp.StatusCode, models.NewExternalError("Spotify", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.ExternalRequests.WithLabelValues(serviceName, endpoint, "error").Inc()
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, resp.StatusCode, models.NewExternalError("Spotify", fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}

	observability.ExternalRequests.WithLabelValues(serviceName, endpoint, "ok").Inc()
	return body, resp.StatusCode, nil
}
