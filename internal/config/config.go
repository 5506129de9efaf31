// Package config loads CLI defaults via Viper, grounded on
// dzeleniak-icu/cmd/config.go's InitConfig shape — a YAML file under the
// user's home config directory, with viper.SetDefault providing every
// value the file doesn't override.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the values read from the config file: default observer
// position, ephemeris path, the query thresholds from spec §6 and the HTTP
// timeout. The predict command reads only EphemerisPath and HTTPTimeoutS;
// its observer and threshold flags keep their own defaults and do not take
// them from this struct.
type Config struct {
	DataDir string `mapstructure:"data_dir"`

	ObserverLatitude  float64 `mapstructure:"observer_latitude"`
	ObserverLongitude float64 `mapstructure:"observer_longitude"`
	ObserverAltitude  float64 `mapstructure:"observer_altitude"`

	EphemerisPath string `mapstructure:"ephemeris_path"`

	AltMinDeg     float64 `mapstructure:"alt_min_deg"`
	NearMarginDeg float64 `mapstructure:"near_margin_deg"`
	CoarseStepS   float64 `mapstructure:"coarse_step_s"`
	FineStepS     float64 `mapstructure:"fine_step_s"`
	RefineWindowS float64 `mapstructure:"refine_window_s"`
	MaxDistanceKm float64 `mapstructure:"max_distance_km"`
	GridStepKm    float64 `mapstructure:"grid_step_km"`

	HTTPTimeoutS int `mapstructure:"http_timeout_s"`
}

// Init reads (or creates) ~/.skytransit/config.yaml and returns the
// resulting Config, with defaults matching spec §6 and
// original_source/iss_transits.py's DEFAULT_* constants.
func Init() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config: resolving home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".skytransit")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("config: creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	viper.SetDefault("data_dir", configDir)
	viper.SetDefault("observer_latitude", 0.0)
	viper.SetDefault("observer_longitude", 0.0)
	viper.SetDefault("observer_altitude", 0.0)
	viper.SetDefault("ephemeris_path", filepath.Join(configDir, "de421.bsp"))
	viper.SetDefault("alt_min_deg", 5.0)
	viper.SetDefault("near_margin_deg", 0.5)
	viper.SetDefault("coarse_step_s", 20.0)
	viper.SetDefault("fine_step_s", 1.0)
	viper.SetDefault("refine_window_s", 60.0)
	viper.SetDefault("max_distance_km", 0.0)
	viper.SetDefault("grid_step_km", 2.0)
	viper.SetDefault("http_timeout_s", 20)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			configPath := filepath.Join(configDir, "config.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				return nil, fmt.Errorf("config: writing default config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return &cfg, nil
}
