package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("BOOKING_API_URL", "https://barberbros.example.com")
	t.Setenv("BOOKING_CSRF_TOKEN", "csrf-token")
	t.Setenv("ENV", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("CATALOG_PATH", "")
	t.Setenv("CATALOG_REFRESH", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "America/Bogota", cfg.Timezone)
	assert.Equal(t, "catalog.json", cfg.CatalogPath)
	assert.False(t, cfg.CatalogFresh)
}

func TestLoad_RequiredFields(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_TOKEN", "")
	_, err := Load()
	assert.Error(t, err)

	setRequired(t)
	t.Setenv("BOOKING_API_URL", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("TIMEZONE", "Europe/Moscow")
	t.Setenv("CATALOG_REFRESH", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
	assert.True(t, cfg.CatalogFresh)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLocation_Invalid(t *testing.T) {
	cfg := &Config{Timezone: "Mars/Olympus"}
	_, err := cfg.Location()
	assert.Error(t, err)
}
