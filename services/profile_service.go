package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/storage"
	"github.com/sidegames-golf/sidegames/utils"
)

type ProfileService interface {
	GetOwn(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetByID(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.Profile, error)
	UpdateNotifications(ctx context.Context, userID uuid.UUID, prefs models.NotificationPreferences) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.Profile, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// UpdateProfileInput — частичное обновление: nil означает "не менять".
type UpdateProfileInput struct {
	DisplayName   *string `json:"display_name"`
	About         *string `json:"about"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Address       *string `json:"address"`
	Apartment     *string `json:"apartment"`
	Country       *string `json:"country"`
	Region        *string `json:"region"`
	PostalCode    *string `json:"postal_code"`
	Phone         *string `json:"phone"`
	TourLeague    *string `json:"tour_league"`
	Location      *string `json:"location"`
	ShowEmail     *bool   `json:"show_email"`
	ShowFirstName *bool   `json:"show_first_name"`
	ShowLastName  *bool   `json:"show_last_name"`
	ShowPhone     *bool   `json:"show_phone"`
}

type profileService struct {
	tx          repositories.Transactor
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
	uploader    storage.FileUploader
	log         *slog.Logger
}

func NewProfileService(
	tx repositories.Transactor,
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	log *slog.Logger,
) ProfileService {
	return &profileService{
		tx:          tx,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		uploader:    uploader,
		log:         log.With(slog.String("service", "profile")),
	}
}

func (s *profileService) GetOwn(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}
	return profile, nil
}

// GetByID отдаёт владельцу полный профиль, остальным — публичное представление.
func (s *profileService) GetByID(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.GetOwn(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewerID != nil && *viewerID == id {
		return profile, nil
	}
	public := profile.PublicView()
	return &public, nil
}

// trimmed возвращает nil для пустой строки, иначе обрезанную копию.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := utils.NewValidator()
	if input.DisplayName != nil {
		v.Check(utils.IsValidDisplayName(*input.DisplayName), "display_name", "must be between 2 and 50 characters")
	}
	if phone := trimmed(input.Phone); phone != nil {
		v.Check(utils.IsValidPhone(*phone), "phone", "must be a valid phone number")
	}
	if !v.Valid() {
		return nil, newValidationError(v.Errors)
	}

	if input.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	fields := []struct {
		in  *string
		dst **string
	}{
		{input.About, &profile.About},
		{input.FirstName, &profile.FirstName},
		{input.LastName, &profile.LastName},
		{input.Address, &profile.Address},
		{input.Apartment, &profile.Apartment},
		{input.Country, &profile.Country},
		{input.Region, &profile.Region},
		{input.PostalCode, &profile.PostalCode},
		{input.Phone, &profile.Phone},
		{input.TourLeague, &profile.TourLeague},
		{input.Location, &profile.Location},
	}
	for _, f := range fields {
		if f.in != nil {
			*f.dst = trimmed(f.in)
		}
	}
	flags := []struct {
		in  *bool
		dst *bool
	}{
		{input.ShowEmail, &profile.ShowEmail},
		{input.ShowFirstName, &profile.ShowFirstName},
		{input.ShowLastName, &profile.ShowLastName},
		{input.ShowPhone, &profile.ShowPhone},
	}
	for _, f := range flags {
		if f.in != nil {
			*f.dst = *f.in
		}
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile %s: %w", userID, err)
	}
	return profile, nil
}

func (s *profileService) UpdateNotifications(ctx context.Context, userID uuid.UUID, prefs models.NotificationPreferences) (*models.Profile, error) {
	if err := s.profileRepo.UpdateNotifications(ctx, userID, prefs); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update notifications for %s: %w", userID, err)
	}
	return s.GetOwn(ctx, userID)
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.Profile, error) {
	profile, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	img, err := storage.PrepareAvatar(file)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return nil, ErrInvalidImage
		}
		return nil, fmt.Errorf("failed to process avatar: %w", err)
	}

	key := storage.AvatarKey(userID)
	result, err := s.uploader.Upload(ctx, key, storage.AvatarContentType, img)
	if err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return nil, ErrStorageUnavailable
		}
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := profile.ImageKey
	if err := s.profileRepo.SetImage(ctx, userID, &result.Location, &result.Key); err != nil {
		s.deleteObject(ctx, result.Key)
		return nil, fmt.Errorf("failed to save avatar url: %w", err)
	}
	if oldKey != nil && *oldKey != result.Key {
		s.deleteObject(ctx, *oldKey)
	}

	profile.ImageURL = &result.Location
	profile.ImageKey = &result.Key
	return profile, nil
}

func (s *profileService) deleteObject(ctx context.Context, key string) {
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete avatar object", slog.String("key", key), logger.Err(err))
	}
}

// Delete удаляет профиль и учётную запись одной транзакцией.
func (s *profileService) Delete(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrProfileNotFound) {
		return fmt.Errorf("failed to get profile %s: %w", userID, err)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.profileRepo.Delete(ctx, exec, userID); err != nil && !errors.Is(err, repositories.ErrProfileNotFound) {
			return err
		}
		return s.userRepo.Delete(ctx, exec, userID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete account %s: %w", userID, err)
	}

	if profile != nil && profile.ImageKey != nil {
		s.deleteObject(ctx, *profile.ImageKey)
	}
	return nil
}
