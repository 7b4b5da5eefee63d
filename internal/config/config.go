// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Features FeaturesConfig `yaml:"features" mapstructure:"features"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SourcesConfig points at the three input shapefiles and their attribute
// field names.
type SourcesConfig struct {
	SensorsPath   string `yaml:"sensors_path" mapstructure:"sensors_path"`
	LandUsePath   string `yaml:"landuse_path" mapstructure:"landuse_path"`
	RoadsPath     string `yaml:"roads_path" mapstructure:"roads_path"`
	SensorIDField string `yaml:"sensor_id_field" mapstructure:"sensor_id_field"`
	LandUseField  string `yaml:"landuse_field" mapstructure:"landuse_field"`
	HighwayField  string `yaml:"highway_field" mapstructure:"highway_field"`
}

// FeaturesConfig tunes the pipeline.
type FeaturesConfig struct {
	RadiusMeters   float64 `yaml:"radius_meters" mapstructure:"radius_meters"`
	BufferSegments int     `yaml:"buffer_segments" mapstructure:"buffer_segments"`
	Workers        int     `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SENSORFEAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "sensorfeat.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("sources.sensor_id_field", "sensor_id")
	v.SetDefault("sources.landuse_field", "landuse")
	v.SetDefault("sources.highway_field", "highway")
	v.SetDefault("features.radius_meters", 1609.344)
	v.SetDefault("features.buffer_segments", 512)
	v.SetDefault("features.workers", 8)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
