package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentsFormatting(t *testing.T) {
	assert.Equal(t, "52.10", Cents(5210).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-1.50", Cents(-150).String())
	assert.Equal(t, "$1,234.50", Cents(123450).Format())
	assert.Equal(t, "$0.60", Cents(60).Format())
	assert.Equal(t, "-$1,000.00", Cents(-100000).Format())
}

func TestCentsJSON(t *testing.T) {
	var v struct {
		A Cents `json:"a"`
		B Cents `json:"b"`
		C Cents `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 10.5, "b": "20.00", "c": null}`), &v))
	assert.Equal(t, Cents(1050), v.A)
	assert.Equal(t, Cents(2000), v.B)
	assert.Equal(t, Cents(0), v.C)

	out, err := json.Marshal(struct {
		Total Cents `json:"total"`
	}{Total: 5210})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 52.10}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a": "ten"}`), &v))
}

func TestCentsScan(t *testing.T) {
	var c Cents
	require.NoError(t, c.Scan([]byte("12.34")))
	assert.Equal(t, Cents(1234), c)
	require.NoError(t, c.Scan(int64(5)))
	assert.Equal(t, Cents(500), c)
	require.NoError(t, c.Scan(nil))
	assert.Equal(t, Cents(0), c)
	assert.Error(t, c.Scan(true))
}

func TestSideGameSettingsScan(t *testing.T) {
	var s SideGameSettings
	require.NoError(t, s.Scan([]byte(`{"02_Net_Medal":{"enabled":true,"fee":10},"01_Low_Net":{"enabled":true,"fee":"12.50"},"09_Closest_To_Pin":{"enabled":false,"fee":5}}`)))
	assert.Equal(t, Cents(1250), s["01_Low_Net"].Fee)
	assert.Equal(t, []string{"01_Low_Net", "02_Net_Medal"}, s.EnabledKeys())

	v, err := SideGameSettings(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestCartItemsScan(t *testing.T) {
	var items CartItems
	require.NoError(t, items.Scan(nil))
	assert.NotNil(t, items)
	assert.Len(t, items, 0)

	raw := `[{"eventSummary":{"selectedEvent":{"id":7,"tour_id":1,"location_id":2,"name":"Spring Open","event_date":"2025-06-14T00:00:00Z","year":2025,"created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"},"tourLabel":"Metro","locationLabel":null},"sideGamesData":{"net":null,"division":null,"superSkins":true,"rows":[{"key":"03_Super_Skins","name":"Super Skins","cost":20,"selected":true}],"totalCost":20}}]`
	require.NoError(t, items.Scan(raw))
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].EventID())
	assert.Equal(t, Cents(2000), items[0].SideGamesData.TotalCost)
}

func TestProfilePublicView(t *testing.T) {
	email := "pat@example.com"
	first := "Pat"
	phone := "5551234567"
	about := "scratch golfer"

	p := Profile{
		DisplayName: "pat",
		Email:       email,
		FirstName:   &first,
		Phone:       &phone,
		About:       &about,
		ShowEmail:   true,
	}
	pub := p.PublicView()
	assert.Equal(t, email, pub.Email)
	assert.Nil(t, pub.FirstName)
	assert.Nil(t, pub.Phone)
	assert.Equal(t, &about, pub.About)

	p.MakePrivate = true
	pub = p.PublicView()
	assert.Empty(t, pub.Email)
	assert.Nil(t, pub.About)
	assert.Equal(t, "pat", pub.DisplayName)
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentMethod("venmo").Valid())
	assert.True(t, PaymentCard.Valid())
	assert.False(t, PaymentMethod("bitcoin").Valid())
}
