// Package config loads application configuration from file, environment
// and defaults via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Sim     SimConfig     `mapstructure:"sim"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DataConfig locates the input files the engine consumes.
type DataConfig struct {
	Dir         string `mapstructure:"dir"`
	CatalogFile string `mapstructure:"catalog_file"`
	ModelFile   string `mapstructure:"model_file"`
}

// PricingConfig drives price reconciliation and the EV bulk floors.
type PricingConfig struct {
	// Sources lists pricing sources in priority order; each name maps to
	// a JSON file <name>.json under the data dir.
	Sources []string `mapstructure:"sources"`
	// Field is the price figure to reconcile: market, low or median.
	Field string `mapstructure:"field"`
	// Set optionally scopes summaries to one release group.
	Set string `mapstructure:"set"`
	// Scenario names a pack model scenario to apply, empty for none.
	Scenario     string   `mapstructure:"scenario"`
	BulkCommon   float64  `mapstructure:"bulk_common"`
	BulkUncommon float64  `mapstructure:"bulk_uncommon"`
	ChaseAliases []string `mapstructure:"chase_aliases"`
}

// SimConfig controls the Monte Carlo cross-check.
type SimConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Trials  int  `mapstructure:"trials"`
	Threads int  `mapstructure:"threads"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the optional config file path, the
// environment (prefix PACKEV) and defaults, in that order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PACKEV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.catalog_file", "catalog.json")
	v.SetDefault("data.model_file", "packmodel.yaml")
	v.SetDefault("pricing.sources", []string{"tcgplayer", "cardmarket"})
	v.SetDefault("pricing.field", "market")
	v.SetDefault("pricing.bulk_common", 0.02)
	v.SetDefault("pricing.bulk_uncommon", 0.05)
	v.SetDefault("sim.enabled", true)
	v.SetDefault("sim.trials", 5000)
	v.SetDefault("sim.threads", 0)
	v.SetDefault("logging.level", "info")
}
