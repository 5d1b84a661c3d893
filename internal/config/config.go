package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the ingestion server connection.
type APIConfig struct {
	// BaseURL is the root URL of the server API
	// (e.g., http://localhost:3001/api).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec is the default request timeout for endpoints that do
	// not specify their own.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// PollConfig holds the sync monitoring cadence.
type PollConfig struct {
	// BaseIntervalSec is the period of the always-on account refresh.
	BaseIntervalSec int `mapstructure:"base_interval_sec" yaml:"base_interval_sec"`

	// FastIntervalSec is the period of the status refresh that only
	// fires while at least one sync job is running.
	FastIntervalSec int `mapstructure:"fast_interval_sec" yaml:"fast_interval_sec"`
}

// UIConfig holds rendering preferences.
type UIConfig struct {
	// ToastDurationSec is how long a notification stays visible.
	ToastDurationSec int `mapstructure:"toast_duration_sec" yaml:"toast_duration_sec"`

	// PageSize is the default page size for search results.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// LogConfig holds file logging settings.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// Config is the top-level application configuration.
type Config struct {
	API  APIConfig  `mapstructure:"api" yaml:"api"`
	Poll PollConfig `mapstructure:"poll" yaml:"poll"`
	UI   UIConfig   `mapstructure:"ui" yaml:"ui"`
	Log  LogConfig  `mapstructure:"log" yaml:"log"`
}

// DefaultPath returns the default configuration file location,
// ~/.config/maildash/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "maildash", "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "http://localhost:3001/api",
			TimeoutSec: 30,
		},
		Poll: PollConfig{
			BaseIntervalSec: 5,
			FastIntervalSec: 1,
		},
		UI: UIConfig{
			ToastDurationSec: 5,
			PageSize:         20,
		},
		Log: LogConfig{
			File:  "~/.local/state/maildash/maildash.log",
			Level: "info",
		},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// A missing file yields the default configuration; environment
// variables with the MAILDASH_ prefix override file values
// (e.g., MAILDASH_API_BASE_URL).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api.base_url", "http://localhost:3001/api")
	v.SetDefault("api.timeout_sec", 30)
	v.SetDefault("poll.base_interval_sec", 5)
	v.SetDefault("poll.fast_interval_sec", 1)
	v.SetDefault("ui.toast_duration_sec", 5)
	v.SetDefault("ui.page_size", 20)
	v.SetDefault("log.file", "~/.local/state/maildash/maildash.log")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("maildash")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file at path, creating
// parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("poll", cfg.Poll)
	v.Set("ui", cfg.UI)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// RequestTimeout returns the default API timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// BaseInterval returns the baseline poll period.
func (c *Config) BaseInterval() time.Duration {
	return time.Duration(c.Poll.BaseIntervalSec) * time.Second
}

// FastInterval returns the fast poll period.
func (c *Config) FastInterval() time.Duration {
	return time.Duration(c.Poll.FastIntervalSec) * time.Second
}

// ToastDuration returns the notification lifetime.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.UI.ToastDurationSec) * time.Second
}
