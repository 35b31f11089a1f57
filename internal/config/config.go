package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config represents the launcher configuration
type Config struct {
	Defaults         Defaults          `mapstructure:"defaults"`
	StreamlitCommand string            `mapstructure:"streamlit_command"`
	Options          map[string]string `mapstructure:"options"`
}

// Defaults contains default values for new sessions
type Defaults struct {
	Title        string `mapstructure:"title"`
	Width        int    `mapstructure:"width"`
	Height       int    `mapstructure:"height"`
	ProbeTimeout string `mapstructure:"probe_timeout"`
}

// ParseProbeTimeout returns the readiness timeout as a duration.
func (d *Defaults) ParseProbeTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(d.ProbeTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid probe_timeout %q: %w", d.ProbeTimeout, err)
	}
	return timeout, nil
}

// Load loads the configuration from ~/.streamlit-desktop/config.yaml or
// returns defaults
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	// Set up viper
	configDir := filepath.Join(home, ".streamlit-desktop")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	setDefaults()

	// Try to read config file, but don't fail if it doesn't exist
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error occurred
			return nil, err
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("defaults.title", "Streamlit Desktop App")
	viper.SetDefault("defaults.width", 1024)
	viper.SetDefault("defaults.height", 768)
	viper.SetDefault("defaults.probe_timeout", "10s")
	viper.SetDefault("streamlit_command", "streamlit")
	viper.SetDefault("options", map[string]string{})
}

// ConfigDir returns the launcher configuration directory path
func ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".streamlit-desktop"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(configDir, 0755)
}
