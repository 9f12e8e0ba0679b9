package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/repositories"
)

type TourService interface {
	List(ctx context.Context) ([]models.Tour, error)
	GetByID(ctx context.Context, id int64) (*models.Tour, error)
	Create(ctx context.Context, input TourInput) (*models.Tour, error)
	Update(ctx context.Context, id int64, input TourInput) (*models.Tour, error)
	Delete(ctx context.Context, id int64) error

	ListLocations(ctx context.Context, tourID int64) ([]models.Location, error)
	LinkLocation(ctx context.Context, tourID, locationID int64) (*models.TourLocation, error)
	UnlinkLocation(ctx context.Context, tourID, locationID int64) error

	Join(ctx context.Context, userID uuid.UUID, tourID int64) (*models.UserTour, error)
	Leave(ctx context.Context, userID uuid.UUID, tourID int64) error
	ListJoined(ctx context.Context, userID uuid.UUID) ([]models.UserTour, error)
}

type TourInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type tourService struct {
	tourRepo         repositories.TourRepository
	locationRepo     repositories.LocationRepository
	tourLocationRepo repositories.TourLocationRepository
	userTourRepo     repositories.UserTourRepository
}

func NewTourService(
	tourRepo repositories.TourRepository,
	locationRepo repositories.LocationRepository,
	tourLocationRepo repositories.TourLocationRepository,
	userTourRepo repositories.UserTourRepository,
) TourService {
	return &tourService{
		tourRepo:         tourRepo,
		locationRepo:     locationRepo,
		tourLocationRepo: tourLocationRepo,
		userTourRepo:     userTourRepo,
	}
}

func (s *tourService) List(ctx context.Context) ([]models.Tour, error) {
	tours, err := s.tourRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return tours, nil
}

func (s *tourService) GetByID(ctx context.Context, id int64) (*models.Tour, error) {
	tour, err := s.tourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTourRepoError(err, id)
	}
	return tour, nil
}

func validateTourInput(input TourInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return newValidationError(map[string]string{"name": "must be provided"})
	}
	return nil
}

func (s *tourService) Create(ctx context.Context, input TourInput) (*models.Tour, error) {
	if err := validateTourInput(input); err != nil {
		return nil, err
	}
	tour := &models.Tour{
		Name:        strings.TrimSpace(input.Name),
		Description: trimmed(input.Description),
	}
	if err := s.tourRepo.Create(ctx, tour); err != nil {
		return nil, mapTourRepoError(err, 0)
	}
	return tour, nil
}

func (s *tourService) Update(ctx context.Context, id int64, input TourInput) (*models.Tour, error) {
	if err := validateTourInput(input); err != nil {
		return nil, err
	}
	tour, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tour.Name = strings.TrimSpace(input.Name)
	tour.Description = trimmed(input.Description)
	if err := s.tourRepo.Update(ctx, tour); err != nil {
		return nil, mapTourRepoError(err, id)
	}
	return tour, nil
}

func (s *tourService) Delete(ctx context.Context, id int64) error {
	if err := s.tourRepo.Delete(ctx, id); err != nil {
		return mapTourRepoError(err, id)
	}
	return nil
}

func mapTourRepoError(err error, id int64) error {
	switch {
	case errors.Is(err, repositories.ErrTourNotFound):
		return ErrTourNotFound
	case errors.Is(err, repositories.ErrTourNameConflict):
		return ErrTourNameConflict
	case errors.Is(err, repositories.ErrTourInUse):
		return ErrTourInUse
	default:
		return fmt.Errorf("tour %d: %w", id, err)
	}
}

func (s *tourService) ListLocations(ctx context.Context, tourID int64) ([]models.Location, error) {
	if _, err := s.GetByID(ctx, tourID); err != nil {
		return nil, err
	}
	locations, err := s.locationRepo.List(ctx, repositories.LocationFilter{TourID: &tourID})
	if err != nil {
		return nil, fmt.Errorf("failed to list locations for tour %d: %w", tourID, err)
	}
	return locations, nil
}

func (s *tourService) LinkLocation(ctx context.Context, tourID, locationID int64) (*models.TourLocation, error) {
	link, err := s.tourLocationRepo.Link(ctx, tourID, locationID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTourLocationConflict):
			return nil, ErrTourLocationConflict
		case errors.Is(err, repositories.ErrTourLocationInvalid):
			return nil, ErrEventReferenceInvalid
		default:
			return nil, fmt.Errorf("failed to link location %d to tour %d: %w", locationID, tourID, err)
		}
	}
	return link, nil
}

func (s *tourService) UnlinkLocation(ctx context.Context, tourID, locationID int64) error {
	if err := s.tourLocationRepo.Unlink(ctx, tourID, locationID); err != nil {
		if errors.Is(err, repositories.ErrTourLocationNotFound) {
			return ErrTourLocationNotFound
		}
		return fmt.Errorf("failed to unlink location %d from tour %d: %w", locationID, tourID, err)
	}
	return nil
}

func (s *tourService) Join(ctx context.Context, userID uuid.UUID, tourID int64) (*models.UserTour, error) {
	membership, err := s.userTourRepo.Join(ctx, userID, tourID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserTourConflict):
			return nil, ErrUserTourConflict
		case errors.Is(err, repositories.ErrTourNotFound):
			return nil, ErrTourNotFound
		default:
			return nil, fmt.Errorf("failed to join tour %d: %w", tourID, err)
		}
	}
	return membership, nil
}

func (s *tourService) Leave(ctx context.Context, userID uuid.UUID, tourID int64) error {
	if err := s.userTourRepo.Leave(ctx, userID, tourID); err != nil {
		if errors.Is(err, repositories.ErrUserTourNotFound) {
			return ErrUserTourNotFound
		}
		return fmt.Errorf("failed to leave tour %d: %w", tourID, err)
	}
	return nil
}

func (s *tourService) ListJoined(ctx context.Context, userID uuid.UUID) ([]models.UserTour, error) {
	tours, err := s.userTourRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours of user %s: %w", userID, err)
	}
	return tours, nil
}
