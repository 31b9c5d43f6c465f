package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestType identifies one of the daily quest templates.
type QuestType string

const (
	QuestShareVibes QuestType = "share_vibes"
	QuestReactPosts QuestType = "react_posts"
	QuestCreatePost QuestType = "create_post"
)

// QuestDayLayout formats the calendar-day key of a quest.
const QuestDayLayout = "2006-01-02"

// QuestTemplate describes a quest handed out every day.
type QuestTemplate struct {
	Type        QuestType
	Title       string
	Description string
	TargetCount int
	PointReward int
}

// QuestTemplates is the fixed daily quest set, in display order.
var QuestTemplates = []QuestTemplate{
	{
		Type:        QuestShareVibes,
		Title:       "Share vibes with friends",
		Description: `Send "I have a vibe with you" to 3 friends`,
		TargetCount: 3,
		PointReward: 50,
	},
	{
		Type:        QuestReactPosts,
		Title:       "React to posts",
		Description: "React to 5 posts from friends",
		TargetCount: 5,
		PointReward: 30,
	},
	{
		Type:        QuestCreatePost,
		Title:       "Share your vibe",
		Description: "Post your morning vibe",
		TargetCount: 1,
		PointReward: 40,
	},
}

// DailyQuest is one user's instance of a quest template for one day.
type DailyQuest struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"size:36;not null;uniqueIndex:idx_quest_user_day_type" json:"user_id"`
	Type         QuestType `gorm:"size:32;not null;uniqueIndex:idx_quest_user_day_type" json:"type"`
	QuestDay     string    `gorm:"size:10;not null;uniqueIndex:idx_quest_user_day_type" json:"quest_day"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	PointReward  int       `gorm:"not null" json:"point_reward"`
	TargetCount  int       `gorm:"not null" json:"target_count"`
	CurrentCount int       `gorm:"not null;default:0" json:"current_count"`
	IsCompleted  bool      `gorm:"not null;default:false" json:"is_completed"`
	QuestDate    time.Time `json:"quest_date"`
}

func (q *DailyQuest) BeforeCreate(_ *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// NewDailyQuest instantiates a template for userID on the given day.
func NewDailyQuest(t QuestTemplate, userID string, day time.Time) DailyQuest {
	return DailyQuest{
		UserID:      userID,
		Type:        t.Type,
		QuestDay:    day.Format(QuestDayLayout),
		Title:       t.Title,
		Description: t.Description,
		PointReward: t.PointReward,
		TargetCount: t.TargetCount,
		QuestDate:   day,
	}
}

// ApplyProgress sets the running total, clamped to [0, TargetCount], and
// reports whether this call moved the quest from pending to completed.
// Completed quests are left untouched.
func (q *DailyQuest) ApplyProgress(progress int) bool {
	if q.IsCompleted {
		return false
	}
	if progress < 0 {
		progress = 0
	}
	if progress > q.TargetCount {
		progress = q.TargetCount
	}
	q.CurrentCount = progress
	q.IsCompleted = q.CurrentCount >= q.TargetCount
	return q.IsCompleted
}
