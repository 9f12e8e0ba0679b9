package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/receipts"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/sidegames"
)

const monthLayout = "2006-01"

type EventService interface {
	List(ctx context.Context, filter EventListFilter) ([]models.Event, error)
	GetDetails(ctx context.Context, id int64) (*models.EventDetails, error)
	Create(ctx context.Context, creatorID uuid.UUID, input EventInput) (*models.EventDetails, error)
	Update(ctx context.Context, userID uuid.UUID, id int64, input EventInput) (*models.EventDetails, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
	Calendar(ctx context.Context, month string) ([]models.CalendarEntry, error)
}

type EventListFilter struct {
	TourID     *int64
	LocationID *int64
	Year       *int
	From       *time.Time
	To         *time.Time
	CreatedBy  *uuid.UUID
}

// EventInput — данные формы создания/изменения события. SideGames — настройки по ключу
// каталога; при изменении nil оставляет текущие настройки.
type EventInput struct {
	TourID      int64                   `json:"tour_id"`
	LocationID  int64                   `json:"location_id"`
	Name        string                  `json:"name"`
	EventDate   string                  `json:"event_date"`
	Year        *int                    `json:"year"`
	CourseName  *string                 `json:"course_name"`
	Description *string                 `json:"description"`
	SideGames   models.SideGameSettings `json:"side_games"`
}

type eventService struct {
	tx           repositories.Transactor
	eventRepo    repositories.EventRepository
	settingsRepo repositories.EventSideGamesRepository
	tourRepo     repositories.TourRepository
	locationRepo repositories.LocationRepository
	purchaseRepo repositories.PurchaseRepository
	sideGames    SideGameService
	loc          *time.Location
	now          func() time.Time
}

func NewEventService(
	tx repositories.Transactor,
	eventRepo repositories.EventRepository,
	settingsRepo repositories.EventSideGamesRepository,
	tourRepo repositories.TourRepository,
	locationRepo repositories.LocationRepository,
	purchaseRepo repositories.PurchaseRepository,
	sideGames SideGameService,
	loc *time.Location,
) EventService {
	if loc == nil {
		loc = time.Local
	}
	return &eventService{
		tx:           tx,
		eventRepo:    eventRepo,
		settingsRepo: settingsRepo,
		tourRepo:     tourRepo,
		locationRepo: locationRepo,
		purchaseRepo: purchaseRepo,
		sideGames:    sideGames,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *eventService) List(ctx context.Context, filter EventListFilter) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx, repositories.EventFilter{
		TourID:     filter.TourID,
		LocationID: filter.LocationID,
		Year:       filter.Year,
		From:       filter.From,
		To:         filter.To,
		CreatedBy:  filter.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) get(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return event, nil
}

func (s *eventService) GetDetails(ctx context.Context, id int64) (*models.EventDetails, error) {
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, event)
}

// details дополняет событие подписями тура и поля, включёнными играми и статусом записи.
func (s *eventService) details(ctx context.Context, event *models.Event) (*models.EventDetails, error) {
	d := &models.EventDetails{Event: *event, SideGames: []models.EventSideGame{}}

	if tour, err := s.tourRepo.GetByID(ctx, event.TourID); err == nil {
		d.TourName = tour.Name
	} else if !errors.Is(err, repositories.ErrTourNotFound) {
		return nil, fmt.Errorf("failed to get tour of event %d: %w", event.ID, err)
	}
	if location, err := s.locationRepo.GetByID(ctx, event.LocationID); err == nil {
		d.LocationName = location.Name
	} else if !errors.Is(err, repositories.ErrLocationNotFound) {
		return nil, fmt.Errorf("failed to get location of event %d: %w", event.ID, err)
	}

	settings, err := s.settingsRepo.Get(ctx, event.ID)
	if err != nil && !errors.Is(err, repositories.ErrEventSideGamesNotFound) {
		return nil, fmt.Errorf("failed to get side games of event %d: %w", event.ID, err)
	}
	if settings != nil {
		catalog, err := s.sideGames.List(ctx)
		if err != nil {
			return nil, err
		}
		d.SideGames = offeredGames(catalog, settings.Games)
	}

	now := s.now().In(s.loc)
	d.EntryOpen = sidegames.EntryOpen(event.EventDate, now)
	d.EntryStatus = sidegames.EntryStatus(event.EventDate, now)
	return d, nil
}

// offeredGames — включённые игры события в порядке каталога с взносами события.
// Ключи без записи в каталоге идут в конце с ключом вместо названия.
func offeredGames(catalog []models.SideGame, settings models.SideGameSettings) []models.EventSideGame {
	out := make([]models.EventSideGame, 0, len(settings))
	seen := make(map[string]bool, len(settings))
	for _, g := range catalog {
		setting, ok := settings[g.Key]
		if !ok || !setting.Enabled {
			continue
		}
		seen[g.Key] = true
		out = append(out, models.EventSideGame{Key: g.Key, Name: g.Name, Description: g.Description, Fee: setting.Fee})
	}
	for _, key := range settings.EnabledKeys() {
		if !seen[key] {
			out = append(out, models.EventSideGame{Key: key, Name: key, Fee: settings[key].Fee})
		}
	}
	return out
}

// parsedEventInput — проверенные поля события.
type parsedEventInput struct {
	date      time.Time
	year      int
	sideGames models.SideGameSettings
}

func (s *eventService) parseInput(ctx context.Context, input EventInput, requireGames bool) (*parsedEventInput, error) {
	fields := map[string]string{}
	if input.TourID <= 0 {
		fields["tour_id"] = "Please select a tour"
	}
	if input.LocationID <= 0 {
		fields["location_id"] = "Please select a location"
	}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "must be provided"
	}
	date, err := time.Parse(models.DateLayout, strings.TrimSpace(input.EventDate))
	if err != nil {
		fields["event_date"] = "must be a date in YYYY-MM-DD format"
	}
	if input.Year != nil && err == nil && *input.Year != date.Year() {
		fields["year"] = "must match the event date"
	}
	if err := newValidationError(fields); err != nil {
		return nil, err
	}

	out := &parsedEventInput{date: date, year: date.Year()}
	if input.SideGames == nil && !requireGames {
		return out, nil
	}
	games, err := s.validateSideGames(ctx, input.SideGames)
	if err != nil {
		return nil, err
	}
	out.sideGames = games
	return out, nil
}

// validateSideGames приводит ключи к ключам каталога и проверяет правила настройки:
// хотя бы одна включённая игра, взнос каждой включённой не меньше $5.00.
func (s *eventService) validateSideGames(ctx context.Context, games models.SideGameSettings) (models.SideGameSettings, error) {
	catalog, err := s.sideGames.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := newCatalogIndex(catalog)

	out := make(models.SideGameSettings, len(games))
	var unknown []string
	enabled := 0
	for key, setting := range games {
		catalogKey, ok := idx.resolve(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		out[catalogKey] = setting
		if setting.Enabled {
			enabled++
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownSideGame, strings.Join(unknown, ", "))
	}
	if enabled == 0 {
		return nil, ErrSideGamesRequired
	}
	for _, setting := range out {
		if setting.Enabled && setting.Fee < sidegames.MinimumEntryFee {
			return nil, ErrEntryFeeTooLow
		}
	}
	return out, nil
}

func (input EventInput) apply(e *models.Event, parsed *parsedEventInput) {
	e.TourID = input.TourID
	e.LocationID = input.LocationID
	e.Name = strings.TrimSpace(input.Name)
	e.EventDate = parsed.date
	e.Year = parsed.year
	e.CourseName = trimmed(input.CourseName)
	e.Description = trimmed(input.Description)
}

// Create пишет событие и его настройки игр в одной транзакции.
func (s *eventService) Create(ctx context.Context, creatorID uuid.UUID, input EventInput) (*models.EventDetails, error) {
	parsed, err := s.parseInput(ctx, input, true)
	if err != nil {
		return nil, err
	}

	event := &models.Event{CreatedBy: &creatorID}
	input.apply(event, parsed)

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.eventRepo.Create(ctx, exec, event); err != nil {
			return err
		}
		return s.settingsRepo.Upsert(ctx, exec, &models.EventSideGames{EventID: event.ID, Games: parsed.sideGames})
	})
	if err != nil {
		return nil, mapEventRepoError(err, 0)
	}
	return s.details(ctx, event)
}

func (s *eventService) ownedEvent(ctx context.Context, userID uuid.UUID, id int64) (*models.Event, error) {
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy == nil || *event.CreatedBy != userID {
		return nil, ErrForbiddenOperation
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, userID uuid.UUID, id int64, input EventInput) (*models.EventDetails, error) {
	event, err := s.ownedEvent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	parsed, err := s.parseInput(ctx, input, false)
	if err != nil {
		return nil, err
	}
	input.apply(event, parsed)

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.eventRepo.Update(ctx, exec, event); err != nil {
			return err
		}
		if parsed.sideGames == nil {
			return nil
		}
		return s.settingsRepo.Upsert(ctx, exec, &models.EventSideGames{EventID: event.ID, Games: parsed.sideGames})
	})
	if err != nil {
		return nil, mapEventRepoError(err, id)
	}
	return s.details(ctx, event)
}

// Delete запрещён, если по событию уже есть покупки.
func (s *eventService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	if _, err := s.ownedEvent(ctx, userID, id); err != nil {
		return err
	}
	count, err := s.purchaseRepo.CountByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count purchases of event %d: %w", id, err)
	}
	if count > 0 {
		return ErrEventHasPurchases
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return mapEventRepoError(err, id)
	}
	return nil
}

func mapEventRepoError(err error, id int64) error {
	switch {
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrEventReferenceInvalid):
		return ErrEventReferenceInvalid
	case errors.Is(err, repositories.ErrEventHasPurchases):
		return ErrEventHasPurchases
	default:
		return fmt.Errorf("event %d: %w", id, err)
	}
}

// Calendar возвращает события месяца ("2006-01") со ссылками на дашборд.
func (s *eventService) Calendar(ctx context.Context, month string) ([]models.CalendarEntry, error) {
	start, err := time.Parse(monthLayout, strings.TrimSpace(month))
	if err != nil {
		return nil, ErrInvalidMonth
	}
	end := start.AddDate(0, 1, -1)

	events, err := s.List(ctx, EventListFilter{From: &start, To: &end})
	if err != nil {
		return nil, err
	}
	entries := make([]models.CalendarEntry, 0, len(events))
	for _, e := range events {
		title := e.Name
		if e.CourseName != nil && *e.CourseName != "" {
			title = fmt.Sprintf("%s (%s)", e.Name, *e.CourseName)
		}
		entries = append(entries, models.CalendarEntry{
			Title:      title,
			Start:      e.DateString(),
			EventID:    e.ID,
			TourID:     e.TourID,
			LocationID: e.LocationID,
			Link:       receipts.EventLink("", e),
		})
	}
	return entries, nil
}
