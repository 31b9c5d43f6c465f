package service

import (
	"context"
	"log/slog"

	"vibeshare/internal/middleware"
	"vibeshare/internal/models"
	"vibeshare/internal/notifications"
	"vibeshare/internal/repository"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	notifier   *notifications.Notifier
}

// CreateFriendshipInput names the requester, the addressee and an optional
// initial status (pending when empty).
type CreateFriendshipInput struct {
	UserID   string                  `json:"user_id"`
	FriendID string                  `json:"friend_id"`
	Status   models.FriendshipStatus `json:"status"`
}

// NewFriendService returns a new FriendService.
func NewFriendService(
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// RequestFriendship links two users. Only one friendship may exist per pair,
// in either direction.
func (s *FriendService) RequestFriendship(ctx context.Context, in CreateFriendshipInput) (*models.Friendship, error) {
	if in.UserID == "" || in.FriendID == "" {
		return nil, models.NewValidationError("user_id and friend_id are required")
	}
	if in.UserID == in.FriendID {
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}
	if in.Status == "" {
		in.Status = models.FriendshipStatusPending
	}
	if !in.Status.Valid() {
		return nil, models.NewValidationError("status must be pending, accepted or blocked")
	}

	requester, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, in.FriendID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, in.UserID, in.FriendID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Friendship already exists")
	}

	friendship := &models.Friendship{
		UserID:   in.UserID,
		FriendID: in.FriendID,
		Status:   in.Status,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	if friendship.Status == models.FriendshipStatusPending {
		s.notifier.PublishEvent(ctx, in.FriendID, notifications.EventFriendRequestReceived, map[string]interface{}{
			"friendship_id": friendship.ID,
			"from_user":     userSummary(requester),
		})
	}
	return friendship, nil
}

// UpdateStatus moves a friendship to status.
func (s *FriendService) UpdateStatus(ctx context.Context, friendshipID string, status models.FriendshipStatus) (*models.Friendship, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status must be pending, accepted or blocked")
	}

	before, err := s.friendRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	updated, err := s.friendRepo.UpdateStatus(ctx, friendshipID, status)
	if err != nil {
		return nil, err
	}

	if before.Status != models.FriendshipStatusAccepted && updated.Status == models.FriendshipStatusAccepted {
		s.notifier.PublishEvent(ctx, updated.UserID, notifications.EventFriendRequestAccepted, map[string]interface{}{
			"friendship_id": updated.ID,
			"friend_id":     updated.FriendID,
		})
	}
	return updated, nil
}

// FriendsOf returns the user's accepted friendships, each carrying the
// other participant's record.
func (s *FriendService) FriendsOf(ctx context.Context, userID string) ([]models.Friendship, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	friendships, err := s.friendRepo.GetAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachCounterparts(ctx, userID, friendships)
}

// PendingRequests returns requests addressed to the user, each carrying the requester.
func (s *FriendService) PendingRequests(ctx context.Context, userID string) ([]models.Friendship, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	friendships, err := s.friendRepo.GetPendingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachCounterparts(ctx, userID, friendships)
}

// FriendshipBetween returns the friendship of the two users regardless of
// status or direction.
func (s *FriendService) FriendshipBetween(ctx context.Context, userID, otherID string) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if friendship == nil {
		return nil, models.NewNotFoundError("Friendship", userID+"/"+otherID)
	}
	return friendship, nil
}

func (s *FriendService) attachCounterparts(ctx context.Context, userID string, friendships []models.Friendship) ([]models.Friendship, error) {
	ids := make([]string, 0, len(friendships))
	for i := range friendships {
		ids = append(ids, friendships[i].OtherSide(userID))
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	out := make([]models.Friendship, 0, len(friendships))
	for _, f := range friendships {
		other, ok := byID[f.OtherSide(userID)]
		if !ok {
			middleware.Logger.WarnContext(ctx, "friendship references missing user",
				slog.String("friendship_id", f.ID),
				slog.String("missing_user_id", f.OtherSide(userID)))
			continue
		}
		f.Friend = other
		out = append(out, f)
	}
	return out, nil
}

func userSummary(user *models.User) map[string]interface{} {
	if user == nil {
		return nil
	}
	return map[string]interface{}{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"avatar":       user.Avatar,
	}
}
