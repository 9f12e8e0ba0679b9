package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/utils"
)

type LocationService interface {
	List(ctx context.Context, filter LocationListFilter) ([]models.Location, error)
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	Create(ctx context.Context, input LocationInput) (*models.Location, error)
	Update(ctx context.Context, id int64, input LocationInput) (*models.Location, error)
	Delete(ctx context.Context, id int64) error
}

type LocationListFilter struct {
	TourID *int64
	Query  string
}

type LocationInput struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zip_code"`
	Phone   *string `json:"phone"`
	Website *string `json:"website"`
}

type locationService struct {
	locationRepo repositories.LocationRepository
}

func NewLocationService(locationRepo repositories.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

func (s *locationService) List(ctx context.Context, filter LocationListFilter) ([]models.Location, error) {
	locations, err := s.locationRepo.List(ctx, repositories.LocationFilter{
		TourID: filter.TourID,
		Query:  strings.TrimSpace(filter.Query),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

func (s *locationService) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapLocationRepoError(err, id)
	}
	return location, nil
}

func (input LocationInput) validate() error {
	v := utils.NewValidator()
	v.Check(utils.IsRequired(input.Name), "name", "must be provided")
	if phone := trimmed(input.Phone); phone != nil {
		v.Check(utils.IsValidPhone(*phone), "phone", "must be a valid phone number")
	}
	return newValidationError(v.Errors)
}

func (input LocationInput) apply(l *models.Location) {
	l.Name = strings.TrimSpace(input.Name)
	l.Address = trimmed(input.Address)
	l.City = trimmed(input.City)
	l.State = trimmed(input.State)
	l.ZipCode = trimmed(input.ZipCode)
	l.Phone = trimmed(input.Phone)
	l.Website = trimmed(input.Website)
}

func (s *locationService) Create(ctx context.Context, input LocationInput) (*models.Location, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	location := &models.Location{}
	input.apply(location)
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return location, nil
}

func (s *locationService) Update(ctx context.Context, id int64, input LocationInput) (*models.Location, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	location, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	input.apply(location)
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, mapLocationRepoError(err, id)
	}
	return location, nil
}

func (s *locationService) Delete(ctx context.Context, id int64) error {
	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return mapLocationRepoError(err, id)
	}
	return nil
}

func mapLocationRepoError(err error, id int64) error {
	switch {
	case errors.Is(err, repositories.ErrLocationNotFound):
		return ErrLocationNotFound
	case errors.Is(err, repositories.ErrLocationInUse):
		return ErrLocationInUse
	default:
		return fmt.Errorf("location %d: %w", id, err)
	}
}
