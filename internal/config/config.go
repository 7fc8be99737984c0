package config

import (
	"github.com/xKrikZ/MeinPortfolio-App/pkg/config"
)

// Config holds the full configuration for the portfolio server.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	API      config.API      `mapstructure:"api"`
	Alerts   config.Alerts   `mapstructure:"alerts"`
	Backup   config.Backup   `mapstructure:"backup"`
	Export   config.Export   `mapstructure:"export"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

// Load loads the server configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
