package server

import (
	"vibeshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendVibe handles POST /api/vibes
// @Summary Send vibe
// @Description Stores the vibe and credits the sender with points
// @Tags vibes
// @Accept json
// @Produce json
// @Param request body service.SendVibeInput true "Vibe"
// @Success 201 {object} models.Vibe
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /vibes [post]
func (s *Server) SendVibe(c *fiber.Ctx) error {
	var req service.SendVibeInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	vibe, err := s.vibeService.SendVibe(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(vibe)
}

// GetReceivedVibes handles GET /api/users/:id/vibes
// @Summary Vibes received
// @Tags vibes
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.Vibe
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/vibes [get]
func (s *Server) GetReceivedVibes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	vibes, err := s.vibeService.Received(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(vibes)
}

// GetVibesBetween handles GET /api/vibes/between/:userId/:otherId
// @Summary Vibes between two users
// @Tags vibes
// @Produce json
// @Param userId path string true "User ID"
// @Param otherId path string true "Other user ID"
// @Success 200 {array} models.Vibe
// @Router /vibes/between/{userId}/{otherId} [get]
func (s *Server) GetVibesBetween(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	otherID, err := s.parseID(c, "otherId")
	if err != nil {
		return nil
	}

	vibes, err := s.vibeService.Between(c.UserContext(), userID, otherID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(vibes)
}
