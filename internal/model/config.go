package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// PortalConfig holds connection settings for the campus backend.
type PortalConfig struct {
	// BaseURL is the root URL of the SmartAssist backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// PageSize is how many notifications to request per fetch.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// UnreadPollSec is how often (in seconds) the unread-count badge
	// is refreshed in the background.
	UnreadPollSec int `mapstructure:"unread_poll_sec" yaml:"unread_poll_sec"`

	// Term is the academic term used for course catalog lookups.
	Term string `mapstructure:"term" yaml:"term"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Portal  PortalConfig  `mapstructure:"portal" yaml:"portal"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/smartassist/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "smartassist", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Portal: PortalConfig{
			BaseURL:       "http://localhost:8000",
			PageSize:      10,
			UnreadPollSec: 30,
			Term:          "fall-2026",
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("portal.base_url", "http://localhost:8000")
	v.SetDefault("portal.page_size", 10)
	v.SetDefault("portal.unread_poll_sec", 30)
	v.SetDefault("portal.term", "fall-2026")
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Portal.PageSize <= 0 {
		cfg.Portal.PageSize = 10
	}
	if cfg.Portal.UnreadPollSec <= 0 {
		cfg.Portal.UnreadPollSec = 30
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("portal", cfg.Portal)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
