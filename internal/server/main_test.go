package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"vibeshare/internal/config"
	"vibeshare/internal/database"
	"vibeshare/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

// newTestApp wires a Server over a private in-memory sqlite database, without
// Redis, behind the full middleware chain.
func newTestApp(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	cfg := &config.Config{
		Env:          "test",
		Port:         "0",
		JWTSecret:    testSecret,
		DBDriver:     "sqlite",
		FeatureFlags: "auto_badges=on",
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: s.errorHandler})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return s, app
}

// doJSON sends body (if any) as JSON and decodes the response into out (if any).
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, out any, headers ...string) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func registerUser(t *testing.T, app *fiber.App, username string) authResponse {
	t.Helper()
	var out authResponse
	status := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
	}, &out)
	require.Equal(t, http.StatusCreated, status)
	return out
}
