// Package config loads and saves the caretrail settings file.
//
// Settings resolve in three layers: built-in defaults, the yaml file,
// then CARETRAIL_* environment variables. The capture flags are the
// collaborator inputs the session controller consumes; disabling one
// skips the matching acquisition step without failing the session.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to upper-cased setting keys for environment
// variable lookup, e.g. CARETRAIL_DATA_DIR.
const EnvPrefix = "CARETRAIL_"

// Settings holds the persisted application settings the capture core
// consumes.
type Settings struct {
	// DataDir is where incident storage and exports live.
	DataDir string `yaml:"data_dir"`

	// LogLevel is a logrus level name ("debug", "info", ...).
	LogLevel string `yaml:"log_level"`

	// VoiceCapture enables the speech-recognition stream.
	VoiceCapture bool `yaml:"voice_capture"`

	// LocationCapture enables the bounded geolocation lookup.
	LocationCapture bool `yaml:"location_capture"`

	// LocationTimeoutSeconds caps the geolocation wait.
	LocationTimeoutSeconds int `yaml:"location_timeout_seconds"`
}

// Default returns the built-in settings.
func Default() Settings {
	dataDir := ".caretrail"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".caretrail")
	}
	return Settings{
		DataDir:                dataDir,
		LogLevel:               "info",
		VoiceCapture:           true,
		LocationCapture:        true,
		LocationTimeoutSeconds: 5,
	}
}

// DefaultPath returns the settings file location under ~/.config.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "caretrail", "config.yaml"), nil
}

// Load reads settings from path, layering the file over defaults and
// environment variables over both. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Default(), fmt.Errorf("parse settings: %w", err)
		}
	}

	s.applyEnv()
	return s, nil
}

// Save writes the settings file, creating parent directories as needed.
func (s Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// LocationTimeout returns the geolocation wait bound as a duration.
func (s Settings) LocationTimeout() time.Duration {
	if s.LocationTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.LocationTimeoutSeconds) * time.Second
}

// applyEnv overrides settings from CARETRAIL_* variables. Unparsable
// boolean values are ignored.
func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvPrefix + "DATA_DIR"); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "VOICE_CAPTURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.VoiceCapture = b
		}
	}
	if v := os.Getenv(EnvPrefix + "LOCATION_CAPTURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.LocationCapture = b
		}
	}
}
