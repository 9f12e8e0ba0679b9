package sidegames

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidegames-golf/sidegames/models"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"03_Super_Skins", "super_skins"},
		{"D2 Skins", "d2_skins"},
		{"01_Low_Net", "low_net"},
		{"  10_Long Drive ", "long_drive"},
		{"Closest-To-Pin", "closest_to_pin"},
		{"net", "net"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, GroupNet, Classify("01_Low_Net"))
	assert.Equal(t, GroupNet, Classify("Net Medal"))
	assert.Equal(t, GroupDivision, Classify("04_D1_Skins"))
	assert.Equal(t, GroupDivision, Classify("D5 Skins"))
	assert.Equal(t, GroupSuperSkins, Classify("03_Super_Skins"))
	assert.Equal(t, GroupOther, Classify("09_Closest_To_Pin"))
	assert.Equal(t, GroupOther, Classify("D6 Skins"))
}

func TestValidateSelection(t *testing.T) {
	t.Run("empty selection", func(t *testing.T) {
		assert.ErrorIs(t, ValidateSelection(nil, nil), ErrNoSelection)
	})

	t.Run("second net when one already purchased", func(t *testing.T) {
		err := ValidateSelection([]string{"02_Net_Medal"}, []string{"Low Net"})
		assert.ErrorIs(t, err, ErrMultipleNet)
	})

	t.Run("two divisions in one selection", func(t *testing.T) {
		err := ValidateSelection([]string{"04_D1_Skins", "05_D2_Skins"}, nil)
		assert.ErrorIs(t, err, ErrMultipleDivision)
	})

	t.Run("re-purchase of the same game", func(t *testing.T) {
		err := ValidateSelection([]string{"03_Super_Skins", "09_Closest_To_Pin"}, []string{"Super Skins"})
		var dup *DuplicateError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, []string{"03_Super_Skins"}, dup.Names)
	})

	t.Run("valid mix", func(t *testing.T) {
		err := ValidateSelection(
			[]string{"01_Low_Net", "04_D1_Skins", "03_Super_Skins", "10_Long_Drive"},
			[]string{"09_Closest_To_Pin"},
		)
		assert.NoError(t, err)
	})

	t.Run("duplicate key inside one selection counts once", func(t *testing.T) {
		assert.NoError(t, ValidateSelection([]string{"01_Low_Net", "01_Low_Net"}, nil))
	})
}

func TestPick(t *testing.T) {
	net, div, super := Pick([]string{"10_Long_Drive", "02_Net_Medal", "06_D3_Skins", "03_Super_Skins"})
	require.NotNil(t, net)
	require.NotNil(t, div)
	assert.Equal(t, "02_Net_Medal", *net)
	assert.Equal(t, "06_D3_Skins", *div)
	assert.True(t, super)

	net, div, super = Pick([]string{"09_Closest_To_Pin"})
	assert.Nil(t, net)
	assert.Nil(t, div)
	assert.False(t, super)
}

func TestFeesCompute(t *testing.T) {
	fees := DefaultFees()

	got := fees.Compute(models.Dollars(50))
	assert.Equal(t, models.Cents(5000), got.Subtotal)
	assert.Equal(t, models.Cents(210), got.Fee)
	assert.Equal(t, models.Cents(5210), got.Total)

	assert.Equal(t, models.FeeBreakdown{}, fees.Compute(0))

	// 3% от $10.50 = 31.5 цента, округляется до 32.
	got = fees.Compute(1050)
	assert.Equal(t, models.Cents(92), got.Fee)
	assert.Equal(t, models.Cents(1142), got.Total)
}

func TestItemTotalAndSubtotal(t *testing.T) {
	rows := []models.SideGameRow{
		{Key: "01_Low_Net", Cost: 1000, Selected: true},
		{Key: "03_Super_Skins", Cost: 2000, Selected: true},
		{Key: "09_Closest_To_Pin", Cost: 500, Selected: false},
	}
	assert.Equal(t, models.Cents(3000), ItemTotal(rows))

	items := models.CartItems{
		{SideGamesData: models.SideGamesData{TotalCost: 3000}},
		{SideGamesData: models.SideGamesData{TotalCost: 2000}},
	}
	assert.Equal(t, models.Cents(5000), Subtotal(items))
}

func TestFilterPurchased(t *testing.T) {
	rows := []models.SideGameRow{
		{Key: "01_Low_Net", Name: "Low Net", Cost: 1000, Selected: true},
		{Name: "Super Skins", Cost: 2000, Selected: true},
		{Key: "10_Long_Drive", Name: "Long Drive", Cost: 500, Selected: true},
		{Key: "09_Closest_To_Pin", Name: "Closest To Pin", Cost: 500, Selected: false},
	}
	purchased := NewKeySet("Low Net", "03_Super_Skins")

	kept, skipped := FilterPurchased(rows, purchased)
	require.Len(t, kept, 1)
	assert.Equal(t, "10_Long_Drive", kept[0].Key)
	assert.Equal(t, []string{"Low Net", "Super Skins"}, skipped)
}

func TestPurchasedByEvent(t *testing.T) {
	purchases := []models.Purchase{
		{EventID: 1, SideGamesData: models.SideGamesData{Rows: []models.SideGameRow{
			{Key: "01_Low_Net", Selected: true},
			{Key: "04_D1_Skins", Selected: false},
		}}},
		{EventID: 1, SideGamesData: models.SideGamesData{Rows: []models.SideGameRow{
			{Name: "Super Skins", Selected: true},
		}}},
		{EventID: 2, SideGamesData: models.SideGamesData{Rows: []models.SideGameRow{
			{Key: "10_Long_Drive", Selected: true},
		}}},
	}
	byEvent := PurchasedByEvent(purchases)
	require.Len(t, byEvent, 2)
	assert.True(t, byEvent[1].Has("low_net"))
	assert.True(t, byEvent[1].Has("03_Super_Skins"))
	assert.False(t, byEvent[1].Has("04_D1_Skins"))
	assert.True(t, byEvent[2].Has("Long Drive"))
}

func TestEntryDeadline(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	event := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	deadline := EntryDeadline(event, loc)
	assert.Equal(t, time.Date(2025, 6, 13, 22, 0, 0, 0, loc), deadline)

	now := time.Date(2025, 6, 11, 19, 30, 0, 0, loc)
	assert.Equal(t, "2 days 2 hours", EntryStatus(event, now))
	assert.True(t, EntryOpen(event, now))

	now = time.Date(2025, 6, 13, 22, 0, 0, 0, loc)
	assert.Equal(t, StatusClosed, EntryStatus(event, now))
	assert.False(t, EntryOpen(event, now))
}

func TestDefaultSelected(t *testing.T) {
	for _, key := range []string{"01_Low_Net", "03_Super_Skins", "08_D5_Skins"} {
		assert.True(t, DefaultSelected(key), key)
	}
	for _, key := range []string{"09_Closest_To_Pin", "10_Long_Drive", "00_Test", "Low_Net", ""} {
		assert.False(t, DefaultSelected(key), key)
	}
}
