package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/validation"
)

var (
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrCannotDemoteSelf       = errors.New("admins cannot remove their own admin role")
)

const (
	MinHeightCm = 50.0
	MaxHeightCm = 272.0
)

// Account is the signed-in user with profile and computed energy needs.
type Account struct {
	User           *model.User    `json:"user"`
	Profile        *model.Profile `json:"profile"`
	LatestWeightKg *float64       `json:"latest_weight_kg,omitempty"`
	BMR            float64        `json:"bmr,omitempty"`
	TDEE           float64        `json:"tdee,omitempty"`
}

// ProfileUpdate is a partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	Name          *string  `json:"name"`
	Sex           *string  `json:"sex"`
	BirthDate     *string  `json:"birth_date"`
	HeightCm      *float64 `json:"height_cm"`
	ActivityLevel *string  `json:"activity_level"`
	UnitSystem    *string  `json:"unit_system"`
}

type UserService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	weightRepository  repository.WeightRepository
	authService       *AuthService
	fileService       *FileService
	emailService      *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	weightRepository repository.WeightRepository,
	authService *AuthService,
	fileService *FileService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		weightRepository:  weightRepository,
		authService:       authService,
		fileService:       fileService,
		emailService:      emailService,
	}
}

func (s *UserService) Account(userID string) (*Account, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepository.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	account := &Account{User: user, Profile: profile}

	now := time.Now()
	latest, err := s.weightRepository.Latest(userID, model.FormatDate(now))
	switch {
	case err == nil:
		account.LatestWeightKg = &latest.WeightKg
		account.BMR = profile.BMR(latest.WeightKg, now)
		account.TDEE = profile.TDEE(latest.WeightKg, now)
	case !errors.Is(err, repository.ErrWeightNotFound):
		return nil, fmt.Errorf("failed to get latest weight: %w", err)
	}

	return account, nil
}

func (s *UserService) UpdateProfile(userID string, in ProfileUpdate) (*Account, error) {
	profile, err := s.profileRepository.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.Field("name", validation.ValidateName(name)); err != nil {
			return nil, err
		}
		profile.Name = name
	}
	if in.Sex != nil {
		if !model.ValidSex(*in.Sex) {
			return nil, validation.Newf("sex", "must be one of male, female, other")
		}
		profile.Sex = *in.Sex
	}
	if in.BirthDate != nil {
		if err := validation.Date("birth_date", *in.BirthDate); err != nil {
			return nil, err
		}
		if *in.BirthDate >= model.Today() {
			return nil, validation.Newf("birth_date", "must be in the past")
		}
		profile.BirthDate = *in.BirthDate
	}
	if in.HeightCm != nil {
		if err := validation.Range("height_cm", *in.HeightCm, MinHeightCm, MaxHeightCm); err != nil {
			return nil, err
		}
		profile.HeightCm = *in.HeightCm
	}
	if in.ActivityLevel != nil {
		if !model.ValidActivityLevel(*in.ActivityLevel) {
			return nil, validation.Newf("activity_level", "must be one of sedentary, light, moderate, active, very_active")
		}
		profile.ActivityLevel = *in.ActivityLevel
	}
	if in.UnitSystem != nil {
		if !model.ValidUnitSystem(*in.UnitSystem) {
			return nil, validation.Newf("unit_system", "must be metric or imperial")
		}
		profile.UnitSystem = *in.UnitSystem
	}

	if err := s.profileRepository.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.Account(userID)
}

func (s *UserService) UpdatePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.authService.ComparePassword(currentPassword, user.PasswordHash); err != nil {
		return ErrInvalidCurrentPassword
	}

	if err := validation.Field("new_password", validation.ValidatePassword(newPassword)); err != nil {
		return err
	}

	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepository.UpdatePassword(userID, hash)
}

// DeleteAccount requires the password, removes stored images best effort and
// deletes the user. Every owned row follows through ON DELETE CASCADE.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.authService.ComparePassword(password, user.PasswordHash); err != nil {
		return ErrInvalidCurrentPassword
	}

	name := ""
	if profile, err := s.profileRepository.ByUserID(userID); err == nil {
		name = profile.Name
	}

	if err := s.fileService.DeleteAllUserFilesFromStorage(ctx, userID); err != nil {
		slog.Warn("failed to delete user files from storage", "user_id", userID, "error", err)
	}

	if err := s.userRepository.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.emailService.SendAccountDeletedEmail(ctx, user.Email, name); err != nil {
		slog.Warn("failed to send account deleted email", "user_id", userID, "error", err)
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}

type UserPage struct {
	Users  []*model.User `json:"users"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func (s *UserService) List(limit, offset int) (*UserPage, error) {
	limit = clampLimit(limit, 50, 200)
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepository.List(limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.userRepository.Count()
	if err != nil {
		return nil, err
	}

	return &UserPage{Users: users, Total: total, Limit: limit, Offset: offset}, nil
}

// SetRole changes a user's role. An admin cannot demote themselves, which
// also keeps at least one admin in place.
func (s *UserService) SetRole(actor *model.User, userID, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, validation.Newf("role", "must be user or admin")
	}
	if actor.ID == userID && role != model.RoleAdmin {
		return nil, ErrCannotDemoteSelf
	}

	if err := s.userRepository.UpdateRole(userID, role); err != nil {
		return nil, err
	}

	slog.Info("user role changed", "user_id", userID, "role", role, "by", actor.ID)
	return s.userRepository.ByID(userID)
}

// PromoteByEmail grants the admin role, for the operator CLI.
func (s *UserService) PromoteByEmail(email string) (*model.User, error) {
	user, err := s.userRepository.ByEmail(validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if err := s.userRepository.UpdateRole(user.ID, model.RoleAdmin); err != nil {
		return nil, err
	}

	user.Role = model.RoleAdmin
	return user, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
