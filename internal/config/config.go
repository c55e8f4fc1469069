// Package config loads runtime configuration from environment variables.
package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the planning pipeline.
type Config struct {
	App         App         `mapstructure:",squash"`
	Storage     Storage     `mapstructure:",squash"`
	Planning    Planning    `mapstructure:",squash"`
	Attribution Attribution `mapstructure:",squash"`
}

// App holds process-level settings.
type App struct {
	LogLevel  string `mapstructure:"log_level"`
	OutputDir string `mapstructure:"output_dir"`
}

// Storage selects the snapshot backends. Empty DSNs fall back to the
// in-memory stores.
type Storage struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
	UseFixtures   bool   `mapstructure:"use_fixtures"`
}

// Planning holds the knobs of the allocation phases.
type Planning struct {
	Budget              float64 `mapstructure:"budget"`
	FrequencyThreshold  float64 `mapstructure:"frequency_threshold"`
	FrequencySaturation float64 `mapstructure:"frequency_saturation"`
	TopSynergyPairs     int     `mapstructure:"top_synergy_pairs"`
	TopDaypartHours     int     `mapstructure:"top_daypart_hours"`
	ContributionSeason  int     `mapstructure:"contribution_season_period"`
}

// Attribution holds the Shapley engine knobs.
type Attribution struct {
	ExactLimit  int   `mapstructure:"attribution_exact_limit"`
	SampleCount int   `mapstructure:"attribution_sample_count"`
	Seed        int64 `mapstructure:"attribution_seed"`
}

// SetDefaults registers default values for every setting.
func SetDefaults() {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("OUTPUT_DIR", "out")

	viper.SetDefault("POSTGRES_DSN", "")
	viper.SetDefault("CLICKHOUSE_DSN", "")
	viper.SetDefault("USE_FIXTURES", true)

	viper.SetDefault("BUDGET", 10000.0)
	viper.SetDefault("FREQUENCY_THRESHOLD", 3.0)
	viper.SetDefault("FREQUENCY_SATURATION", 8.0)
	viper.SetDefault("TOP_SYNERGY_PAIRS", 5)
	viper.SetDefault("TOP_DAYPART_HOURS", 6)
	viper.SetDefault("CONTRIBUTION_SEASON_PERIOD", 7)

	viper.SetDefault("ATTRIBUTION_EXACT_LIMIT", 8)
	viper.SetDefault("ATTRIBUTION_SAMPLE_COUNT", 5000)
	viper.SetDefault("ATTRIBUTION_SEED", 1)
}

// NewConfig builds a Config from defaults and environment variables.
func NewConfig() (*Config, error) {
	config := &Config{}

	SetDefaults()
	viper.AutomaticEnv()

	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	return config, nil
}
