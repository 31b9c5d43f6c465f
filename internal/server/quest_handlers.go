package server

import (
	"vibeshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetDailyQuests handles GET /api/users/:id/daily-quests
// @Summary Daily quests
// @Description Quests for the given day, created on first access
// @Tags gamification
// @Produce json
// @Param id path string true "User ID"
// @Param date query string false "Day as YYYY-MM-DD (default today)"
// @Success 200 {array} models.DailyQuest
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/daily-quests [get]
func (s *Server) GetDailyQuests(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	quests, err := s.gameService.DailyQuests(c.UserContext(), id, c.Query("date"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(quests)
}

// UpdateQuestProgress handles PATCH /api/daily-quests/:id/progress
// @Summary Set quest progress
// @Description Sets the running total; reaching the target completes the quest and pays its reward once
// @Tags gamification
// @Accept json
// @Produce json
// @Param id path string true "Quest ID"
// @Param request body object{progress=int} true "Progress"
// @Success 200 {object} models.DailyQuest
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /daily-quests/{id}/progress [patch]
func (s *Server) UpdateQuestProgress(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Progress *int `json:"progress"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Progress == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("progress is required"))
	}

	quest, err := s.gameService.UpdateProgress(c.UserContext(), id, *req.Progress)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(quest)
}
