package server

import (
	"vibeshare/internal/models"
	"vibeshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateFriendship handles POST /api/friendships
// @Summary Request friendship
// @Description Links two users; status defaults to pending
// @Tags friends
// @Accept json
// @Produce json
// @Param request body service.CreateFriendshipInput true "Friendship"
// @Success 201 {object} models.Friendship
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /friendships [post]
func (s *Server) CreateFriendship(c *fiber.Ctx) error {
	var req service.CreateFriendshipInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	friendship, err := s.friendService.RequestFriendship(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// UpdateFriendship handles PATCH /api/friendships/:id
// @Summary Change friendship status
// @Tags friends
// @Accept json
// @Produce json
// @Param id path string true "Friendship ID"
// @Param request body object{status=string} true "New status"
// @Success 200 {object} models.Friendship
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /friendships/{id} [patch]
func (s *Server) UpdateFriendship(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status models.FriendshipStatus `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	friendship, err := s.friendService.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(friendship)
}

// GetFriends handles GET /api/users/:id/friends
// @Summary List friends
// @Tags friends
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.Friendship
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/friends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	friendships, err := s.friendService.FriendsOf(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(friendships)
}

// GetFriendRequests handles GET /api/users/:id/friend-requests
// @Summary Pending friend requests
// @Tags friends
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.Friendship
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/friend-requests [get]
func (s *Server) GetFriendRequests(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	requests, err := s.friendService.PendingRequests(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// GetFriendshipBetween handles GET /api/users/:id/friendships/:otherId
// @Summary Friendship between two users
// @Tags friends
// @Produce json
// @Param id path string true "User ID"
// @Param otherId path string true "Other user ID"
// @Success 200 {object} models.Friendship
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/friendships/{otherId} [get]
func (s *Server) GetFriendshipBetween(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	otherID, err := s.parseID(c, "otherId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendService.FriendshipBetween(c.UserContext(), id, otherID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(friendship)
}
