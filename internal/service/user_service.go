package service

import (
	"context"
	"log/slog"
	"strings"

	"vibeshare/internal/cache"
	"vibeshare/internal/middleware"
	"vibeshare/internal/models"
	"vibeshare/internal/repository"
	"vibeshare/internal/validation"
)

// UserService provides registration, login and profile logic.
type UserService struct {
	store *repository.Store
	games *GamificationService
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio"`
}

// UpdateProfileInput is a shallow patch; nil fields are left alone.
type UpdateProfileInput struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio"`
}

// NewUserService returns a new UserService.
func NewUserService(store *repository.Store, games *GamificationService) *UserService {
	return &UserService{store: store, games: games}
}

// Register creates the account and hands out today's quests.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.DisplayName == "" {
		in.DisplayName = in.Username
	}

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateImageURL(in.Avatar); err != nil {
		return nil, models.NewValidationError("avatar must be an absolute http(s) URL")
	}

	existing, err := s.store.Users.FindByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username or email already taken")
	}

	user := &models.User{
		Username:    in.Username,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Avatar:      in.Avatar,
		Bio:         in.Bio,
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return s.games.ensureQuests(ctx, tx.Quests, user.ID, s.games.today())
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user registered", slog.String("target_user_id", user.ID))
	return user, nil
}

// Login resolves the account by email or username and advances its streak.
func (s *UserService) Login(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, models.NewValidationError("Email or username is required")
	}

	user, err := s.store.Users.FindByEmailOrUsername(ctx, strings.ToLower(identifier), identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	now := s.games.Now()
	streak := NextStreak(user.StreakCount, user.LastActiveDate, now, s.games.Location())

	var earned []*models.Badge
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.UpdateActivity(ctx, user.ID, streak, now.UTC()); err != nil {
			return err
		}
		if streak < StreakMasterDays {
			return nil
		}
		badge, err := s.games.awardBadge(ctx, tx, user.ID, models.BadgeStreakMaster)
		if badge != nil {
			earned = append(earned, badge)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, user.ID)
	s.games.announceBadges(ctx, earned)

	return s.store.Users.GetByID(ctx, user.ID)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.Users.GetByID(ctx, id)
}

// UpdateProfile applies the non-nil fields of in.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*models.User, error) {
	changes := make(map[string]interface{})

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		changes["username"] = username
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		changes["email"] = email
	}
	if in.DisplayName != nil {
		if err := validation.ValidateDisplayName(*in.DisplayName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		changes["display_name"] = strings.TrimSpace(*in.DisplayName)
	}
	if in.Avatar != nil {
		if err := validation.ValidateImageURL(*in.Avatar); err != nil {
			return nil, models.NewValidationError("avatar must be an absolute http(s) URL")
		}
		changes["avatar"] = *in.Avatar
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		changes["bio"] = *in.Bio
	}

	return s.store.Users.Update(ctx, id, changes)
}

// UpdateSpotify stores the user's latest music snapshot.
func (s *UserService) UpdateSpotify(ctx context.Context, id string, data *models.SpotifySnapshot) (*models.User, error) {
	if data == nil {
		return nil, models.NewValidationError("spotify data is required")
	}
	return s.store.Users.UpdateSpotify(ctx, id, data)
}
