package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidegames-golf/sidegames/models"
)

func newTestDashboard(env *testEnv) DashboardService {
	return NewDashboardService(env.tours, env.locations, env.events, env.eventSvc, env.sideGames)
}

func TestDashboardWithoutSelection(t *testing.T) {
	env := newTestEnv()
	env.seedEvent(uuid.New(), "2026-06-10", standardGames())

	dash, err := newTestDashboard(env).Load(context.Background(), DashboardQuery{})
	require.NoError(t, err)

	assert.Nil(t, dash.Selected)
	assert.Len(t, dash.Tours, 1)
	assert.Len(t, dash.Locations, 1)
	assert.Len(t, dash.Events, 1)
	assert.Len(t, dash.SideGames, len(testCatalog()))
}

func TestDashboardFiltersByTourAndLocation(t *testing.T) {
	env := newTestEnv()
	env.locations.locations[2] = &models.Location{ID: 2, Name: "Tobacco Road"}
	env.seedEvent(uuid.New(), "2026-06-10", standardGames())
	other := env.seedEvent(uuid.New(), "2026-06-11", standardGames())
	env.events.events[other.ID].LocationID = 2

	tourID, locationID := int64(1), int64(2)
	dash, err := newTestDashboard(env).Load(context.Background(), DashboardQuery{TourID: &tourID, LocationID: &locationID})
	require.NoError(t, err)

	require.Len(t, dash.Events, 1)
	assert.Equal(t, other.ID, dash.Events[0].ID)
	require.Len(t, dash.Locations, 1, "locations are limited to the tour")
	assert.Equal(t, "Pinehurst No. 2", dash.Locations[0].Name)
}

func TestDashboardSelectedEventSetsFilters(t *testing.T) {
	env := newTestEnv()
	event := env.seedEvent(uuid.New(), "2026-06-10", standardGames())

	dash, err := newTestDashboard(env).Load(context.Background(), DashboardQuery{EventID: &event.ID})
	require.NoError(t, err)

	require.NotNil(t, dash.Selected)
	assert.Equal(t, event.ID, dash.Selected.Event.ID)
	assert.True(t, dash.Selected.Event.EntryOpen)
	require.NotNil(t, dash.Selected.Tour)
	assert.Equal(t, "Carolinas Tour", dash.Selected.Tour.Name)
	require.NotNil(t, dash.Selected.Location)
	assert.Equal(t, "Pinehurst No. 2", dash.Selected.Location.Name)
	assert.Len(t, dash.Selected.Event.SideGames, 5)

	missing := int64(404)
	_, err = newTestDashboard(env).Load(context.Background(), DashboardQuery{EventID: &missing})
	assert.ErrorIs(t, err, ErrEventNotFound)
}
