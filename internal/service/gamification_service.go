package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"vibeshare/internal/cache"
	"vibeshare/internal/featureflags"
	"vibeshare/internal/middleware"
	"vibeshare/internal/models"
	"vibeshare/internal/notifications"
	"vibeshare/internal/observability"
	"vibeshare/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// GamificationService owns daily quests, point awards and badges.
type GamificationService struct {
	store    *repository.Store
	flags    *featureflags.Manager
	notifier *notifications.Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewGamificationService returns a GamificationService whose calendar days
// start at midnight in loc.
func NewGamificationService(
	store *repository.Store,
	flags *featureflags.Manager,
	notifier *notifications.Notifier,
	loc *time.Location,
) *GamificationService {
	if loc == nil {
		loc = time.UTC
	}
	return &GamificationService{
		store:    store,
		flags:    flags,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (s *GamificationService) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the current time in the service's zone.
func (s *GamificationService) Now() time.Time {
	return s.now().In(s.loc)
}

// Location returns the zone whose midnight separates days.
func (s *GamificationService) Location() *time.Location {
	return s.loc
}

// DailyQuests returns the user's quests for date (YYYY-MM-DD, empty for
// today), creating them from the templates on first access.
func (s *GamificationService) DailyQuests(ctx context.Context, userID, date string) ([]models.DailyQuest, error) {
	day, err := s.parseDay(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureQuests(ctx, s.store.Quests, userID, day); err != nil {
		return nil, err
	}

	quests, err := s.store.Quests.ListForDay(ctx, userID, day.Format(models.QuestDayLayout))
	if err != nil {
		return nil, err
	}
	sortByTemplate(quests)
	return quests, nil
}

// UpdateProgress sets the quest's running total. A pending quest that
// reaches its target is completed and pays out its reward exactly once;
// completed quests are returned unchanged.
func (s *GamificationService) UpdateProgress(ctx context.Context, questID string, progress int) (quest *models.DailyQuest, err error) {
	ctx, span := observability.StartSpan(ctx, "gamification", "update_progress",
		attribute.String("quest_id", questID),
		attribute.Int("progress", progress),
	)
	defer func() { observability.EndSpan(span, err) }()

	var completed bool
	var earned []*models.Badge

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		q, err := tx.Quests.GetByID(ctx, questID)
		if err != nil {
			return err
		}
		quest = q
		if q.IsCompleted {
			return nil
		}

		transitioned := q.ApplyProgress(progress)
		written, err := tx.Quests.UpdateProgress(ctx, q)
		if err != nil {
			return err
		}
		if !written {
			// completed concurrently; report the stored state
			quest, err = tx.Quests.GetByID(ctx, questID)
			return err
		}
		if !transitioned {
			return nil
		}

		if err := tx.Users.AddPoints(ctx, q.UserID, q.PointReward); err != nil {
			return err
		}
		completed = true

		badge, err := s.awardBadge(ctx, tx, q.UserID, models.BadgeQuestChampion)
		if err != nil {
			return err
		}
		if badge != nil {
			earned = append(earned, badge)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		cache.InvalidateUser(ctx, quest.UserID)
		observability.QuestsCompleted.WithLabelValues(string(quest.Type)).Inc()
		observability.PointsAwarded.WithLabelValues(observability.ReasonQuestCompleted).Add(float64(quest.PointReward))
		middleware.Logger.InfoContext(ctx, "daily quest completed",
			slog.String("quest_id", quest.ID),
			slog.String("quest_type", string(quest.Type)),
			slog.Int("points", quest.PointReward))
		s.notifier.PublishEvent(ctx, quest.UserID, notifications.EventQuestCompleted, map[string]interface{}{
			"quest_id":     quest.ID,
			"quest_type":   quest.Type,
			"point_reward": quest.PointReward,
		})
	}
	s.announceBadges(ctx, earned)

	return quest, nil
}

// Badges lists the user's badges, most recent first.
func (s *GamificationService) Badges(ctx context.Context, userID string) ([]models.Badge, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Badges.ListByUser(ctx, userID)
}

func (s *GamificationService) parseDay(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return StartOfDay(s.now(), s.loc), nil
	}
	day, err := time.ParseInLocation(models.QuestDayLayout, date, s.loc)
	if err != nil {
		return time.Time{}, models.NewValidationError("date must use the YYYY-MM-DD format")
	}
	return day, nil
}

func (s *GamificationService) today() time.Time {
	return StartOfDay(s.now(), s.loc)
}

// ensureQuests instantiates every template for userID on day unless it
// already exists.
func (s *GamificationService) ensureQuests(ctx context.Context, repo repository.QuestRepository, userID string, day time.Time) error {
	quests := make([]models.DailyQuest, 0, len(models.QuestTemplates))
	for _, tpl := range models.QuestTemplates {
		quests = append(quests, models.NewDailyQuest(tpl, userID, day))
	}
	return repo.EnsureForDay(ctx, quests)
}

// awardBadge grants badgeType to the user inside tx when automatic badges
// are enabled for them. It returns the new badge, or nil when the flag is
// off or the user already holds one.
func (s *GamificationService) awardBadge(ctx context.Context, tx *repository.Store, userID, badgeType string) (*models.Badge, error) {
	if !s.flags.Enabled(featureflags.AutoBadges, userID) {
		return nil, nil
	}
	badge := newBadge(userID, badgeType)
	awarded, err := tx.Badges.Award(ctx, badge)
	if err != nil || !awarded {
		return nil, err
	}
	return badge, nil
}

// announceBadges records and publishes badges granted by a committed transaction.
func (s *GamificationService) announceBadges(ctx context.Context, badges []*models.Badge) {
	for _, b := range badges {
		observability.BadgesAwarded.WithLabelValues(b.Type).Inc()
		middleware.Logger.InfoContext(ctx, "badge awarded",
			slog.String("badge_type", b.Type),
			slog.String("target_user_id", b.UserID))
		s.notifier.PublishEvent(ctx, b.UserID, notifications.EventBadgeEarned, map[string]interface{}{
			"badge_id": b.ID,
			"type":     b.Type,
			"title":    b.Title,
		})
	}
}

func sortByTemplate(quests []models.DailyQuest) {
	order := make(map[models.QuestType]int, len(models.QuestTemplates))
	for i, tpl := range models.QuestTemplates {
		order[tpl.Type] = i
	}
	sort.SliceStable(quests, func(i, j int) bool {
		return order[quests[i].Type] < order[quests[j].Type]
	})
}
