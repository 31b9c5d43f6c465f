package server

import (
	"vibeshare/internal/models"
	"vibeshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body service.CreatePostInput true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
// @Summary List a user's posts
// @Description Every post by the user, private ones included, newest first
// @Tags posts
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListUserPosts(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetFeed handles GET /api/users/:id/feed
// @Summary Feed
// @Description Public posts by the user and accepted friends, newest first
// @Tags posts
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Maximum posts (default 20, max 100)"
// @Success 200 {array} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	limit := service.DefaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		limit = c.QueryInt("limit", -1)
		if limit <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("limit must be a positive integer"))
		}
	}

	feed, err := s.postService.Feed(c.UserContext(), id, limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}
