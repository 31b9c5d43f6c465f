package service

import "vibeshare/internal/models"

// StreakMasterDays is the streak length that earns the streak_master badge.
const StreakMasterDays = 7

type badgeDefinition struct {
	Title       string
	Description string
}

var badgeCatalog = map[string]badgeDefinition{
	models.BadgeStreakMaster: {
		Title:       "Streak Master",
		Description: "Kept a 7 day streak",
	},
	models.BadgeFirstVibe: {
		Title:       "First Vibe",
		Description: "Sent your first vibe",
	},
	models.BadgeQuestChampion: {
		Title:       "Quest Champion",
		Description: "Completed a daily quest",
	},
}

func newBadge(userID, badgeType string) *models.Badge {
	def := badgeCatalog[badgeType]
	return &models.Badge{
		UserID:      userID,
		Type:        badgeType,
		Title:       def.Title,
		Description: def.Description,
	}
}
