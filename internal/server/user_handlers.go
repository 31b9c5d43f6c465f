package server

import (
	"vibeshare/internal/models"
	"vibeshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	user, err := s.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUser handles GET /api/users/:id
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PATCH /api/users/:id
// @Summary Update profile
// @Description Shallow patch of profile fields; omitted fields are unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body service.UpdateProfileInput true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [patch]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateProfileInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), id, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateSpotify handles PATCH /api/users/:id/spotify
// @Summary Store spotify snapshot
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body models.SpotifySnapshot true "Snapshot"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/spotify [patch]
func (s *Server) UpdateSpotify(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var snapshot models.SpotifySnapshot
	if err := parseBody(c, &snapshot); err != nil {
		return nil
	}

	user, err := s.userService.UpdateSpotify(c.UserContext(), id, &snapshot)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetBadges handles GET /api/users/:id/badges
// @Summary List badges
// @Tags gamification
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.Badge
// @Router /users/{id}/badges [get]
func (s *Server) GetBadges(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	badges, err := s.gameService.Badges(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(badges)
}
