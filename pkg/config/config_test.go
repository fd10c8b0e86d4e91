package config_test

import (
	"testing"

	"github.com/agrismart/platform/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "agrismart", cfg.Database.Database)
	assert.Equal(t, "nominatim", cfg.Geocoding.Provider)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoding.BaseURL)
	assert.Equal(t, 120, cfg.Classifier.TimeoutSeconds)
	assert.Equal(t, "data/ifs_models.csv", cfg.Dataset.CSVPath)
	assert.False(t, cfg.OTEL.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("GEOCODING_PROVIDER", "mock")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mock", cfg.Geocoding.Provider)
	assert.True(t, cfg.OTEL.Enabled)
	assert.Equal(t, "host=db.internal port=6543 user=postgres password= dbname=agrismart sslmode=disable", cfg.Database.DatabaseDSN())
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
}
