package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/sidegames")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CHECKOUT_FEE_BP", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, int64(250), cfg.Checkout.FeePercentBasisPoints)
	assert.Equal(t, int64(60), cfg.Checkout.FlatFeeCents)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, "America/New_York", cfg.Location().String())
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `env: prod
server:
  port: 8181
  timeZone: UTC
db:
  url: postgres://db/sidegames
auth:
  jwtSecretKey: from-file
checkout:
  flatFeeCents: 75
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)
	unsetEnv(t, "DATABASE_URL", "JWT_SECRET_KEY", "SERVER_PORT", "EVENT_TIME_ZONE", "APP_ENV")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecretKey)
	assert.Equal(t, int64(75), cfg.Checkout.FlatFeeCents)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestValidatePort(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{Port: 70000, TimeZone: "UTC"},
		DB:     DBConfig{URL: "postgres://x"},
		Auth:   AuthConfig{JWTSecretKey: "k", TokenTTL: time.Hour},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}

// unsetEnv убирает переменные на время теста, иначе они перекроют значения из файла.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
