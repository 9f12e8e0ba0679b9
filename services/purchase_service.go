package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/receipts"
	"github.com/sidegames-golf/sidegames/repositories"
)

type PurchaseService interface {
	List(ctx context.Context, userID uuid.UUID, eventID *int64) ([]models.Purchase, error)
	MyEvents(ctx context.Context, userID uuid.UUID) (*models.MyEvents, error)
	Receipt(ctx context.Context, userID uuid.UUID, purchaseID int64) ([]byte, error)
}

type purchaseService struct {
	purchaseRepo repositories.PurchaseRepository
	eventRepo    repositories.EventRepository
	tourRepo     repositories.TourRepository
	locationRepo repositories.LocationRepository
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	publicURL    string
}

func NewPurchaseService(
	purchaseRepo repositories.PurchaseRepository,
	eventRepo repositories.EventRepository,
	tourRepo repositories.TourRepository,
	locationRepo repositories.LocationRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	publicURL string,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		eventRepo:    eventRepo,
		tourRepo:     tourRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		publicURL:    publicURL,
	}
}

// List возвращает покупки пользователя (новые первыми) вместе с событиями.
func (s *purchaseService) List(ctx context.Context, userID uuid.UUID, eventID *int64) ([]models.Purchase, error) {
	filter := repositories.PurchaseFilter{UserID: userID}
	if eventID != nil {
		filter.EventIDs = []int64{*eventID}
	}
	purchases, err := s.purchaseRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	if err := s.attachEvents(ctx, purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (s *purchaseService) attachEvents(ctx context.Context, purchases []models.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(purchases))
	seen := make(map[int64]bool, len(purchases))
	for _, p := range purchases {
		if !seen[p.EventID] {
			seen[p.EventID] = true
			ids = append(ids, p.EventID)
		}
	}
	events, err := s.eventRepo.List(ctx, repositories.EventFilter{IDs: ids})
	if err != nil {
		return fmt.Errorf("failed to load purchase events: %w", err)
	}
	byID := make(map[int64]*models.Event, len(events))
	for i := range events {
		byID[events[i].ID] = &events[i]
	}
	for i := range purchases {
		purchases[i].Event = byID[purchases[i].EventID]
	}
	return nil
}

// MyEvents — события, куда пользователь записан (по одному на событие, берётся самая
// ранняя покупка), и события, которые он создал.
func (s *purchaseService) MyEvents(ctx context.Context, userID uuid.UUID) (*models.MyEvents, error) {
	purchases, err := s.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	out := &models.MyEvents{Entered: []models.EnteredEvent{}, Created: []models.Event{}}
	seen := make(map[int64]bool, len(purchases))
	for i := len(purchases) - 1; i >= 0; i-- {
		p := purchases[i]
		if seen[p.EventID] || p.Event == nil {
			continue
		}
		seen[p.EventID] = true
		out.Entered = append(out.Entered, models.EnteredEvent{
			Event:      *p.Event,
			PurchaseID: p.ID,
			TotalCost:  p.TotalCost,
			Purchased:  p.PurchaseDate,
		})
	}

	created, err := s.eventRepo.List(ctx, repositories.EventFilter{CreatedBy: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list created events: %w", err)
	}
	if created != nil {
		out.Created = created
	}
	return out, nil
}

// Receipt рендерит PDF-квитанцию по покупке пользователя.
func (s *purchaseService) Receipt(ctx context.Context, userID uuid.UUID, purchaseID int64) ([]byte, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, repositories.ErrPurchaseNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to get purchase %d: %w", purchaseID, err)
	}
	if purchase.UserID != userID {
		// Чужая покупка выглядит так же, как несуществующая.
		return nil, ErrPurchaseNotFound
	}

	event, err := s.eventRepo.GetByID(ctx, purchase.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", purchase.EventID, err)
	}

	r := receipts.Receipt{Purchase: *purchase, Event: *event}
	if tour, err := s.tourRepo.GetByID(ctx, event.TourID); err == nil {
		r.TourName = tour.Name
	}
	if location, err := s.locationRepo.GetByID(ctx, event.LocationID); err == nil {
		r.LocationName = location.Name
		if location.Phone != nil {
			r.LocationPhone = *location.Phone
		}
	}
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		r.BuyerEmail = user.Email
	}
	if profile, err := s.profileRepo.GetByID(ctx, userID); err == nil {
		r.BuyerName = profile.DisplayName
	}

	pdf, err := receipts.Render(r, s.publicURL)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt %d: %w", purchaseID, err)
	}
	return pdf, nil
}
