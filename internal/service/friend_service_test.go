package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vibeshare/internal/models"
)

type friendRepoStub struct {
	createFn                    func(context.Context, *models.Friendship) error
	getByIDFn                   func(context.Context, string) (*models.Friendship, error)
	getFriendshipBetweenUsersFn func(context.Context, string, string) (*models.Friendship, error)
	getAcceptedFn               func(context.Context, string) ([]models.Friendship, error)
	getPendingRequestsFn        func(context.Context, string) ([]models.Friendship, error)
	updateStatusFn              func(context.Context, string, models.FriendshipStatus) (*models.Friendship, error)
	incrementVibeCountFn        func(context.Context, string) error
}

func (s *friendRepoStub) Create(ctx context.Context, friendship *models.Friendship) error {
	return s.createFn(ctx, friendship)
}
func (s *friendRepoStub) GetByID(ctx context.Context, id string) (*models.Friendship, error) {
	return s.getByIDFn(ctx, id)
}
func (s *friendRepoStub) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 string) (*models.Friendship, error) {
	return s.getFriendshipBetweenUsersFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) GetAccepted(ctx context.Context, userID string) ([]models.Friendship, error) {
	return s.getAcceptedFn(ctx, userID)
}
func (s *friendRepoStub) GetPendingRequests(ctx context.Context, userID string) ([]models.Friendship, error) {
	return s.getPendingRequestsFn(ctx, userID)
}
func (s *friendRepoStub) UpdateStatus(ctx context.Context, id string, status models.FriendshipStatus) (*models.Friendship, error) {
	return s.updateStatusFn(ctx, id, status)
}
func (s *friendRepoStub) IncrementVibeCount(ctx context.Context, id string) error {
	return s.incrementVibeCountFn(ctx, id)
}

type userRepoStub struct {
	getByIDFn  func(context.Context, string) (*models.User, error)
	getByIDsFn func(context.Context, []string) ([]models.User, error)
}

func (s *userRepoStub) Create(context.Context, *models.User) error { return nil }
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *userRepoStub) GetByEmail(context.Context, string) (*models.User, error)    { return nil, nil }
func (s *userRepoStub) GetByUsername(context.Context, string) (*models.User, error) { return nil, nil }
func (s *userRepoStub) FindByEmailOrUsername(context.Context, string, string) (*models.User, error) {
	return nil, nil
}
func (s *userRepoStub) Update(context.Context, string, map[string]interface{}) (*models.User, error) {
	return nil, nil
}
func (s *userRepoStub) UpdateSpotify(context.Context, string, *models.SpotifySnapshot) (*models.User, error) {
	return nil, nil
}
func (s *userRepoStub) UpdateActivity(context.Context, string, int, time.Time) error { return nil }
func (s *userRepoStub) AddPoints(context.Context, string, int) error                 { return nil }
func (s *userRepoStub) List(context.Context, int, int) ([]models.User, error)         { return nil, nil }

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByIDsFn: func(_ context.Context, ids []string) ([]models.User, error) {
			out := make([]models.User, 0, len(ids))
			for _, id := range ids {
				out = append(out, models.User{ID: id, Username: "user-" + id})
			}
			return out, nil
		},
	}
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createFn:  func(context.Context, *models.Friendship) error { return nil },
		getByIDFn: func(context.Context, string) (*models.Friendship, error) { return &models.Friendship{}, nil },
		getFriendshipBetweenUsersFn: func(context.Context, string, string) (*models.Friendship, error) {
			return nil, nil
		},
		getAcceptedFn:        func(context.Context, string) ([]models.Friendship, error) { return nil, nil },
		getPendingRequestsFn: func(context.Context, string) ([]models.Friendship, error) { return nil, nil },
		updateStatusFn: func(_ context.Context, id string, status models.FriendshipStatus) (*models.Friendship, error) {
			return &models.Friendship{ID: id, Status: status}, nil
		},
		incrementVibeCountFn: func(context.Context, string) error { return nil },
	}
}

func TestFriendServiceRequestSelf(t *testing.T) {
	svc := NewFriendService(noopFriendRepo(), noopUserRepo(), nil)

	_, err := svc.RequestFriendship(context.Background(), CreateFriendshipInput{UserID: "u1", FriendID: "u1"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestFriendServiceRequestExistingConflicts(t *testing.T) {
	friendRepo := noopFriendRepo()
	friendRepo.getFriendshipBetweenUsersFn = func(context.Context, string, string) (*models.Friendship, error) {
		return &models.Friendship{ID: "f1", UserID: "u2", FriendID: "u1", Status: models.FriendshipStatusPending}, nil
	}
	created := false
	friendRepo.createFn = func(context.Context, *models.Friendship) error {
		created = true
		return nil
	}
	svc := NewFriendService(friendRepo, noopUserRepo(), nil)

	_, err := svc.RequestFriendship(context.Background(), CreateFriendshipInput{UserID: "u1", FriendID: "u2"})
	if models.ErrorCode(err) != models.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if created {
		t.Fatal("no friendship should be created")
	}
}

func TestFriendServiceRequestMissingTarget(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		if id == "ghost" {
			return nil, models.NewNotFoundError("User", id)
		}
		return &models.User{ID: id}, nil
	}
	svc := NewFriendService(noopFriendRepo(), userRepo, nil)

	_, err := svc.RequestFriendship(context.Background(), CreateFriendshipInput{UserID: "u1", FriendID: "ghost"})
	if models.ErrorCode(err) != models.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestFriendServiceRequestDefaultsToPending(t *testing.T) {
	var stored *models.Friendship
	friendRepo := noopFriendRepo()
	friendRepo.createFn = func(_ context.Context, f *models.Friendship) error {
		stored = f
		return nil
	}
	svc := NewFriendService(friendRepo, noopUserRepo(), nil)

	f, err := svc.RequestFriendship(context.Background(), CreateFriendshipInput{UserID: "u1", FriendID: "u2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || f.Status != models.FriendshipStatusPending {
		t.Fatalf("expected stored pending friendship, got %+v", f)
	}

	_, err = svc.RequestFriendship(context.Background(), CreateFriendshipInput{UserID: "u1", FriendID: "u2", Status: "besties"})
	if models.ErrorCode(err) != models.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for unknown status, got %v", err)
	}
}

func TestFriendServiceFriendsOfResolvesOtherSide(t *testing.T) {
	friendRepo := noopFriendRepo()
	friendRepo.getAcceptedFn = func(context.Context, string) ([]models.Friendship, error) {
		return []models.Friendship{
			{ID: "f1", UserID: "me", FriendID: "u2", Status: models.FriendshipStatusAccepted},
			{ID: "f2", UserID: "u3", FriendID: "me", Status: models.FriendshipStatusAccepted},
			{ID: "f3", UserID: "me", FriendID: "gone", Status: models.FriendshipStatusAccepted},
		}, nil
	}
	userRepo := noopUserRepo()
	base := userRepo.getByIDsFn
	userRepo.getByIDsFn = func(ctx context.Context, ids []string) ([]models.User, error) {
		kept := ids[:0:0]
		for _, id := range ids {
			if id != "gone" {
				kept = append(kept, id)
			}
		}
		return base(ctx, kept)
	}
	svc := NewFriendService(friendRepo, userRepo, nil)

	friends, err := svc.FriendsOf(context.Background(), "me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("expected 2 resolvable friendships, got %d", len(friends))
	}
	if friends[0].Friend.ID != "u2" || friends[1].Friend.ID != "u3" {
		t.Fatalf("friend records resolved to the wrong side: %+v", friends)
	}
}

func TestFriendServiceBetweenMissing(t *testing.T) {
	svc := NewFriendService(noopFriendRepo(), noopUserRepo(), nil)
	_, err := svc.FriendshipBetween(context.Background(), "u1", "u2")
	if models.ErrorCode(err) != models.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestFriendServiceUpdateStatusValidation(t *testing.T) {
	svc := NewFriendService(noopFriendRepo(), noopUserRepo(), nil)
	_, err := svc.UpdateStatus(context.Background(), "f1", "unfriended")
	if models.ErrorCode(err) != models.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	f, err := svc.UpdateStatus(context.Background(), "f1", models.FriendshipStatusAccepted)
	if err != nil || f.Status != models.FriendshipStatusAccepted {
		t.Fatalf("expected accepted friendship, got %+v, %v", f, err)
	}
}
