package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ServerConfig is the web console's own configuration. Values come from the
// config file when one is given, with OVENBOARD_* environment variables
// taking precedence.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	LeadTimeDays int    `mapstructure:"lead_time_days"`
	LookbackDays int    `mapstructure:"lookback_days"`
	SnapshotPath string `mapstructure:"snapshot_path"`
}

func LoadServerConfig(path string) (*ServerConfig, error) {
	v := viper.New()
	v.SetDefault("addr", "127.0.0.1:8080")
	v.SetDefault("lead_time_days", 7)
	v.SetDefault("lookback_days", 30)
	v.SetDefault("snapshot_path", "ovenboard.db")

	v.SetEnvPrefix("OVENBOARD")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if cfg.LeadTimeDays <= 0 {
		return nil, fmt.Errorf("lead_time_days must be positive, got %d", cfg.LeadTimeDays)
	}
	if cfg.LookbackDays < 0 {
		return nil, fmt.Errorf("lookback_days must not be negative, got %d", cfg.LookbackDays)
	}
	return &cfg, nil
}
