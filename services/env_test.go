package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/sessions"
	"github.com/sidegames-golf/sidegames/sidegames"
)

// testNow — "сейчас" для всех сервисов в тестах: 1 июня 2026, полдень UTC.
var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	tx        *fakeTx
	events    *fakeEventRepo
	settings  *fakeSettingsRepo
	tours     *fakeTourRepo
	locations *fakeLocationRepo
	purchases *fakePurchaseRepo
	carts     *fakeCartRepo
	catalog   *fakeSideGameRepo
	notifier  *fakeNotifier

	sideGames SideGameService
	eventSvc  *eventService
	cartSvc   CartService
	checkout  *checkoutService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tx:        &fakeTx{},
		events:    newFakeEventRepo(),
		settings:  newFakeSettingsRepo(),
		tours:     newFakeTourRepo(models.Tour{ID: 1, Name: "Carolinas Tour"}),
		locations: newFakeLocationRepo(models.Location{ID: 1, Name: "Pinehurst No. 2"}),
		purchases: &fakePurchaseRepo{},
		carts:     newFakeCartRepo(),
		catalog:   &fakeSideGameRepo{games: testCatalog()},
		notifier:  &fakeNotifier{},
	}
	env.locations.byTour[1] = []int64{1}

	env.sideGames = NewSideGameService(env.catalog, sessions.NewMemoryStore(), logger.Discard())

	env.eventSvc = NewEventService(env.tx, env.events, env.settings, env.tours, env.locations,
		env.purchases, env.sideGames, time.UTC).(*eventService)
	env.eventSvc.now = func() time.Time { return testNow }

	env.cartSvc = NewCartService(env.tx, env.carts, env.purchases, env.eventSvc, sidegames.DefaultFees(), env.notifier)

	env.checkout = NewCheckoutService(env.tx, env.carts, env.purchases, sidegames.DefaultFees(),
		env.notifier, time.UTC, logger.Discard()).(*checkoutService)
	env.checkout.now = func() time.Time { return testNow }
	return env
}

// seedEvent кладёт событие с настройками игр прямо в репозитории.
func (env *testEnv) seedEvent(creator uuid.UUID, date string, games models.SideGameSettings) models.Event {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		panic(err)
	}
	e := &models.Event{
		TourID:     1,
		LocationID: 1,
		Name:       "Club Championship",
		EventDate:  d,
		Year:       d.Year(),
		CreatedBy:  &creator,
	}
	_ = env.events.Create(context.Background(), nil, e)
	env.settings.games[e.ID] = games
	return *e
}

// standardGames — Low Net, Net Medal, Super Skins, D1, D2 и Closest To Pin по $10
// (Super Skins $20); Closest To Pin выключен.
func standardGames() models.SideGameSettings {
	return models.SideGameSettings{
		"01_Low_Net":        {Enabled: true, Fee: 1000},
		"02_Net_Medal":      {Enabled: true, Fee: 1000},
		"03_Super_Skins":    {Enabled: true, Fee: 2000},
		"04_D1_Skins":       {Enabled: true, Fee: 1000},
		"05_D2_Skins":       {Enabled: true, Fee: 1000},
		"09_Closest_To_Pin": {Enabled: false, Fee: 500},
	}
}

// priorPurchase — покупка, сделанная раньше, с отмеченными ключами.
func priorPurchase(userID uuid.UUID, eventID int64, keys ...string) models.Purchase {
	rows := make([]models.SideGameRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, models.SideGameRow{Key: k, Name: k, Cost: 1000, Selected: true})
	}
	return models.Purchase{
		UserID:        userID,
		EventID:       eventID,
		SideGamesData: models.SideGamesData{Rows: rows, TotalCost: sidegames.ItemTotal(rows)},
		TotalCost:     sidegames.ItemTotal(rows),
		Status:        models.PurchaseStatusCompleted,
		PurchaseDate:  testNow.Add(-24 * time.Hour),
	}
}
