package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsOrdersByName(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_add.sql":  {Data: []byte("ALTER TABLE x ADD y INT;")},
		"m/0001_init.sql": {Data: []byte("CREATE TABLE x (id INT);")},
		"m/README.md":     {Data: []byte("ignored")},
	}
	got, err := loadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "0001_init", got[0].Version)
	assert.Equal(t, "0002_add", got[1].Version)
	assert.Contains(t, got[1].SQL, "ALTER TABLE")
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "0001_init", got[0].Version)
	for _, table := range []string{"users", "profiles", "tours", "locations", "tour_locations",
		"events", "side_games", "event_side_games", "purchases", "cart", "user_tours"} {
		assert.Contains(t, got[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestPending(t *testing.T) {
	all := []Migration{{Version: "0001"}, {Version: "0002"}, {Version: "0003"}}
	got := Pending(all, map[string]bool{"0001": true, "0003": true})
	require.Len(t, got, 1)
	assert.Equal(t, "0002", got[0].Version)

	assert.Empty(t, Pending(all, map[string]bool{"0001": true, "0002": true, "0003": true}))
}
