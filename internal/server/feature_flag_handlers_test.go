package server

import (
	"net/http"
	"testing"

	"vibeshare/internal/featureflags"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestGetFeatureFlags(t *testing.T) {
	app := fiber.New()
	s := &Server{featureFlags: featureflags.NewManager("auto_badges=on,beta=off")}
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		return c.Next()
	})
	app.Get("/feature-flags", s.GetFeatureFlags)

	var body struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}
	assert.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/feature-flags", nil, &body))
	assert.Equal(t, "on", body.Raw["auto_badges"])
	assert.True(t, body.Evaluated["auto_badges"])
	assert.False(t, body.Evaluated["beta"])
}

func TestGetFeatureFlagsRequiresAuth(t *testing.T) {
	_, app := newTestApp(t)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, app, http.MethodGet, "/api/feature-flags", nil, nil))
}
