package receipts

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidegames-golf/sidegames/models"
)

func TestEventLink(t *testing.T) {
	e := models.Event{ID: 7, TourID: 2, LocationID: 3}
	assert.Equal(t,
		"https://sidegames.golf/Dashboard?event_id=7&location_id=3&tour_id=2",
		EventLink("https://sidegames.golf/", e))
}

func TestRender(t *testing.T) {
	method := "venmo"
	ref := "venmo-1717000000000"
	course := "North Course"
	r := Receipt{
		Purchase: models.Purchase{
			ID: 42,
			SideGamesData: models.SideGamesData{Rows: []models.SideGameRow{
				{Key: "01_Low_Net", Name: "Low Net", Cost: 1000, Selected: true},
				{Key: "09_Closest_To_Pin", Name: "Closest To Pin", Cost: 500, Selected: false},
			}},
			TotalCost:        1000,
			Status:           models.PurchaseStatusCompleted,
			PaymentMethod:    &method,
			PaymentReference: &ref,
			PurchaseDate:     time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		},
		Event: models.Event{
			ID: 7, TourID: 2, LocationID: 3,
			Name:       "Spring Open",
			EventDate:  time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
			CourseName: &course,
		},
		TourName:      "Metro Tour",
		LocationName:  "Pine Valley",
		LocationPhone: "910.555.1234",
		BuyerName:     "Pat Morgan",
	}

	pdf, err := Render(r, "https://sidegames.golf")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Greater(t, len(pdf), 1000)
}
