package server

import (
	"vibeshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReaction handles POST /api/reactions
// @Summary React to a post
// @Description Replaces the user's earlier reaction to the post, if any
// @Tags reactions
// @Accept json
// @Produce json
// @Param request body service.ReactInput true "Reaction"
// @Success 201 {object} models.Reaction
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reactions [post]
func (s *Server) CreateReaction(c *fiber.Ctx) error {
	var req service.ReactInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	reaction, err := s.reactionService.React(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reaction)
}

// DeleteReaction handles DELETE /api/reactions/:userId/:postId
// @Summary Remove a reaction
// @Tags reactions
// @Param userId path string true "User ID"
// @Param postId path string true "Post ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /reactions/{userId}/{postId} [delete]
func (s *Server) DeleteReaction(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.reactionService.Unreact(c.UserContext(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPostReactions handles GET /api/posts/:id/reactions
// @Summary List reactions
// @Tags reactions
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {array} models.Reaction
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/reactions [get]
func (s *Server) GetPostReactions(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reactions, err := s.reactionService.ReactionsOf(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reactions)
}
