package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"deskwell/internal/core/model"
	"deskwell/internal/ui/preferences"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlReminder struct {
	Enabled          *bool `yaml:"enabled,omitempty"`
	FrequencyMinutes int   `yaml:"frequency_minutes,omitempty"`
}

type yamlSettings struct {
	SpokenAlerts  bool                    `yaml:"spoken_alerts"`
	LaunchAtLogin bool                    `yaml:"launch_at_login"`
	Reminders     map[string]yamlReminder `yaml:"reminders,omitempty"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFrom(configPath)
}

// LoadSettingsFrom reads preferences from an explicit path.
func LoadSettingsFrom(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsTo(configPath, settings)
}

// SaveSettingsTo writes preferences to an explicit path.
func SaveSettingsTo(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		SpokenAlerts:  settings.SpokenAlerts,
		LaunchAtLogin: settings.LaunchAtLogin,
		Reminders:     make(map[string]yamlReminder, len(settings.Reminders)),
	}
	for key, reminder := range settings.Reminders {
		enabled := reminder.Enabled
		fileData.Reminders[string(key)] = yamlReminder{
			Enabled:          &enabled,
			FrequencyMinutes: reminder.Frequency,
		}
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	settings.SpokenAlerts = fileData.SpokenAlerts
	settings.LaunchAtLogin = fileData.LaunchAtLogin

	for _, definition := range model.DefaultReminders() {
		stored, ok := fileData.Reminders[string(definition.Key)]
		if !ok {
			continue
		}
		current := settings.Reminders[definition.Key]
		if stored.Enabled != nil {
			current.Enabled = *stored.Enabled
		}
		if definition.Allows(stored.FrequencyMinutes) {
			current.Frequency = stored.FrequencyMinutes
		}
		settings.Reminders[definition.Key] = current
	}
}
