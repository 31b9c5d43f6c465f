package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"vibeshare/internal/middleware"
)

// Event type constants prevent typos in event names.
const (
	EventVibeReceived          = "vibe_received"
	EventFriendRequestReceived = "friend_request_received"
	EventFriendRequestAccepted = "friend_request_accepted"
	EventPostReacted           = "post_reacted"
	EventQuestCompleted        = "quest_completed"
	EventBadgeEarned           = "badge_earned"
)

// Event is the envelope published on user channels.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// PublishEvent marshals the event and sends it to the user's channel.
// Delivery is best effort: failures are logged and never returned.
func (n *Notifier) PublishEvent(ctx context.Context, userID, eventType string, payload map[string]interface{}) {
	if n == nil || n.rdb == nil || userID == "" {
		return
	}
	eventJSON, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal event",
			slog.String("event", eventType), slog.String("error", err.Error()))
		return
	}
	if err := n.PublishUser(ctx, userID, string(eventJSON)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish event",
			slog.String("event", eventType),
			slog.String("target_user_id", userID),
			slog.String("error", err.Error()))
	}
}

// DecodeEvent parses a payload published by PublishEvent.
func DecodeEvent(payload string) (Event, error) {
	var ev Event
	err := json.Unmarshal([]byte(payload), &ev)
	return ev, err
}
