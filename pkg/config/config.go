package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// App holds application configuration.
type App struct {
	Name            string `mapstructure:"name"`
	Env             string `mapstructure:"env"`
	Version         string `mapstructure:"version"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

// Logger holds logger configuration.
type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Database holds database configuration for the local SQLite file.
type Database struct {
	Path            string `mapstructure:"path"`
	BusyTimeoutMS   int    `mapstructure:"busy_timeout_ms"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

// API holds API server configuration.
type API struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Alerts holds alert checker configuration.
type Alerts struct {
	CronSpec string `mapstructure:"cron_spec"`
	Notify   bool   `mapstructure:"notify"`
}

// Backup holds database backup configuration.
type Backup struct {
	Enabled       bool   `mapstructure:"enabled"`
	Dir           string `mapstructure:"dir"`
	RetentionDays int    `mapstructure:"retention_days"`
	CronSpec      string `mapstructure:"cron_spec"`
}

// Export holds CSV export configuration.
type Export struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Telegram holds Telegram notifier configuration.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Load loads configuration from a file into the given config struct.
func Load(path string, config interface{}) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Failed to read config file, falling back to environment variables")
	}

	return viper.Unmarshal(config)
}
