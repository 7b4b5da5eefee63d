package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "sensorfeat.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sensor_id", cfg.Sources.SensorIDField)
	assert.Equal(t, "landuse", cfg.Sources.LandUseField)
	assert.Equal(t, "highway", cfg.Sources.HighwayField)
	assert.InDelta(t, 1609.344, cfg.Features.RadiusMeters, 0.001)
	assert.Equal(t, 512, cfg.Features.BufferSegments)
	assert.Equal(t, 8, cfg.Features.Workers)
}

func TestLoadFromYAML(t *testing.T) {
	chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/features
sources:
  sensors_path: data/sensors.shp
  landuse_path: data/landuse.shp
  roads_path: data/roads.shp
features:
  radius_meters: 800
  workers: 2
log:
  level: debug
  format: console
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/features", cfg.Store.DatabaseURL)
	assert.Equal(t, "data/sensors.shp", cfg.Sources.SensorsPath)
	assert.Equal(t, "data/landuse.shp", cfg.Sources.LandUsePath)
	assert.Equal(t, "data/roads.shp", cfg.Sources.RoadsPath)
	assert.InDelta(t, 800.0, cfg.Features.RadiusMeters, 0.001)
	assert.Equal(t, 2, cfg.Features.Workers)
	// Unset keys keep their defaults.
	assert.Equal(t, 512, cfg.Features.BufferSegments)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SENSORFEAT_STORE_DRIVER", "postgres")
	t.Setenv("SENSORFEAT_FEATURES_WORKERS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Features.Workers)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "console"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
