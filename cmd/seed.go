package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidegames-golf/sidegames/db"
	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/services"
	"github.com/sidegames-golf/sidegames/sidegames"
)

func strPtr(s string) *string { return &s }

// defaultCatalog — стандартный набор побочных игр. Порядок ключей задаёт порядок на экране.
func defaultCatalog() []models.SideGame {
	return []models.SideGame{
		{Key: "01_Low_Net", Name: "Low Net", Value: 1000, Description: strPtr("Lowest net score for the round")},
		{Key: "02_Low_Gross", Name: "Low Gross", Value: 1000, Description: strPtr("Lowest gross score for the round")},
		{Key: "03_Super_Skins", Name: "Super Skins", Value: 2000, Description: strPtr("Skins across the whole field")},
		{Key: "04_D1_Skins", Name: "D1 Skins", Value: 1000},
		{Key: "05_D2_Skins", Name: "D2 Skins", Value: 1000},
		{Key: "06_D3_Skins", Name: "D3 Skins", Value: 1000},
		{Key: "07_D4_Skins", Name: "D4 Skins", Value: 1000},
		{Key: "08_D5_Skins", Name: "D5 Skins", Value: 1000},
		{Key: "09_Closest_To_Pin", Name: "Closest To Pin", Value: 500, Description: strPtr("Par 3 proximity")},
		{Key: "10_Long_Drive", Name: "Long Drive", Value: 500},
	}
}

type demoEvent struct {
	name   string
	course string
	inDays int
}

var demoData = []struct {
	tour      string
	locations []models.Location
	events    []demoEvent
}{
	{
		tour: "Carolina Amateur Tour",
		locations: []models.Location{
			{Name: "Pinehurst No. 2", City: strPtr("Pinehurst"), State: strPtr("NC")},
			{Name: "Tobacco Road", City: strPtr("Sanford"), State: strPtr("NC")},
		},
		events: []demoEvent{
			{name: "Spring Classic", course: "Championship tees", inDays: 14},
			{name: "Member Guest", course: "Member tees", inDays: 45},
		},
	},
	{
		tour: "Lowcountry Senior Series",
		locations: []models.Location{
			{Name: "Harbour Town", City: strPtr("Hilton Head Island"), State: strPtr("SC")},
		},
		events: []demoEvent{
			{name: "Fall Scramble", course: "White tees", inDays: 30},
		},
	},
}

func newSeedCmd(a *app) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the default side game catalog",
		Long: `Upserts the default side game catalog and drops the cached copy so running
servers pick it up. With --demo also creates sample tours, locations and events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.seed(cmd.Context(), demo)
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "also create demo tours, locations and events")
	return cmd
}

func (a *app) seed(ctx context.Context, demo bool) error {
	dbConn, err := db.Connect(a.cfg.DB, dbConnectTimeout, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			a.log.Error("failed to close database connection", logger.Err(err))
		}
	}()

	store := openStore(ctx, a.cfg.Redis, a.log)
	defer store.Close()

	r := newRepos(dbConn)
	sideGames := services.NewSideGameService(r.sideGames, store, a.log)

	catalog := defaultCatalog()
	if err := sideGames.Upsert(ctx, catalog); err != nil {
		return err
	}
	a.log.Info("side game catalog seeded", slog.Int("games", len(catalog)))

	if !demo {
		return nil
	}

	tours := services.NewTourService(r.tours, r.locations, r.tourLocations, r.userTours)
	locations := services.NewLocationService(r.locations)

	existing, err := tours.List(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.Name] = true
	}

	settings := defaultSettings(catalog)
	today := time.Now().In(a.cfg.Location())
	for _, d := range demoData {
		if known[d.tour] {
			a.log.Info("demo tour already exists, skipping", slog.String("tour", d.tour))
			continue
		}
		tour, err := tours.Create(ctx, services.TourInput{Name: d.tour})
		if err != nil {
			return err
		}

		for i, l := range d.locations {
			location, err := locations.Create(ctx, services.LocationInput{Name: l.Name, City: l.City, State: l.State})
			if err != nil {
				return err
			}
			if _, err := tours.LinkLocation(ctx, tour.ID, location.ID); err != nil {
				return err
			}
			if i >= len(d.events) {
				continue
			}
			if err := a.createDemoEvent(ctx, r, tour.ID, location.ID, d.events[i], today, settings); err != nil {
				return err
			}
		}
		a.log.Info("demo tour created", slog.String("tour", d.tour), slog.Int64("tour_id", tour.ID))
	}
	return nil
}

// createDemoEvent пишет событие без автора, у демо-данных нет владельца.
func (a *app) createDemoEvent(ctx context.Context, r repos,
	tourID, locationID int64, e demoEvent, today time.Time, settings models.SideGameSettings) error {

	date := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, e.inDays)
	event := &models.Event{
		TourID:     tourID,
		LocationID: locationID,
		Name:       e.name,
		EventDate:  date,
		Year:       date.Year(),
		CourseName: strPtr(e.course),
	}
	err := r.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := r.events.Create(ctx, exec, event); err != nil {
			return err
		}
		return r.eventGames.Upsert(ctx, exec, &models.EventSideGames{EventID: event.ID, Games: settings})
	})
	if err != nil {
		return fmt.Errorf("failed to create demo event %q: %w", e.name, err)
	}
	a.log.Debug("demo event created", slog.Int64("event_id", event.ID), slog.String("date", event.DateString()))
	return nil
}

// defaultSettings включает игры 01_..08_ со взносом каталога.
func defaultSettings(catalog []models.SideGame) models.SideGameSettings {
	settings := make(models.SideGameSettings, len(catalog))
	for _, g := range catalog {
		fee := g.Value
		if fee < sidegames.MinimumEntryFee {
			fee = sidegames.MinimumEntryFee
		}
		settings[g.Key] = models.SideGameSetting{Enabled: sidegames.DefaultSelected(g.Key), Fee: fee}
	}
	return settings
}
