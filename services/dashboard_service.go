package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/repositories"
)

type DashboardService interface {
	Load(ctx context.Context, query DashboardQuery) (*models.Dashboard, error)
}

// DashboardQuery — фильтры дашборда. EventID (ссылка из календаря или квитанции)
// задаёт тур и поле сам.
type DashboardQuery struct {
	TourID     *int64
	LocationID *int64
	EventID    *int64
}

type dashboardService struct {
	tourRepo     repositories.TourRepository
	locationRepo repositories.LocationRepository
	eventRepo    repositories.EventRepository
	events       EventService
	sideGames    SideGameService
}

func NewDashboardService(
	tourRepo repositories.TourRepository,
	locationRepo repositories.LocationRepository,
	eventRepo repositories.EventRepository,
	events EventService,
	sideGames SideGameService,
) DashboardService {
	return &dashboardService{
		tourRepo:     tourRepo,
		locationRepo: locationRepo,
		eventRepo:    eventRepo,
		events:       events,
		sideGames:    sideGames,
	}
}

func (s *dashboardService) Load(ctx context.Context, query DashboardQuery) (*models.Dashboard, error) {
	dash := &models.Dashboard{}

	if query.EventID != nil {
		details, err := s.events.GetDetails(ctx, *query.EventID)
		if err != nil {
			return nil, err
		}
		dash.Selected = &models.DashboardSelection{Event: *details}
		query.TourID = &details.TourID
		query.LocationID = &details.LocationID
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tours, err := s.tourRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list tours: %w", err)
		}
		dash.Tours = tours
		return nil
	})
	g.Go(func() error {
		locations, err := s.locationRepo.List(gctx, repositories.LocationFilter{TourID: query.TourID})
		if err != nil {
			return fmt.Errorf("failed to list locations: %w", err)
		}
		dash.Locations = locations
		return nil
	})
	g.Go(func() error {
		events, err := s.eventRepo.List(gctx, repositories.EventFilter{TourID: query.TourID, LocationID: query.LocationID})
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		dash.Events = events
		return nil
	})
	g.Go(func() error {
		games, err := s.sideGames.List(gctx)
		if err != nil {
			return err
		}
		dash.SideGames = games
		return nil
	})

	if dash.Selected != nil {
		sel := dash.Selected
		g.Go(func() error {
			tour, err := s.tourRepo.GetByID(gctx, sel.Event.TourID)
			if err != nil && !errors.Is(err, repositories.ErrTourNotFound) {
				return fmt.Errorf("failed to get selected tour: %w", err)
			}
			sel.Tour = tour
			return nil
		})
		g.Go(func() error {
			location, err := s.locationRepo.GetByID(gctx, sel.Event.LocationID)
			if err != nil && !errors.Is(err, repositories.ErrLocationNotFound) {
				return fmt.Errorf("failed to get selected location: %w", err)
			}
			sel.Location = location
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dash, nil
}
