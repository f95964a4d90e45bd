package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds server options read from an optional YAML file. Command
// line flags and environment variables override these.
type Settings struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ScenariosDir    string        `yaml:"scenarios_dir"`
	AuditDir        string        `yaml:"audit_dir"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Debug           bool          `yaml:"debug"`
}

// DefaultSettings returns the built-in server settings
func DefaultSettings() Settings {
	return Settings{
		Host:            "localhost",
		Port:            8080,
		ScenariosDir:    "scenarios",
		SessionTTL:      24 * time.Hour,
		CleanupInterval: time.Hour,
	}
}

// LoadSettings reads path over the defaults. An empty path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Validate checks the settings for values the server cannot start with
func (s Settings) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	if s.SessionTTL < 0 || s.CleanupInterval < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}
