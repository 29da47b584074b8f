package preferences

import (
	"deskwell/internal/core/model"
)

// ReminderSettings holds the start-up values of one reminder.
type ReminderSettings struct {
	Enabled   bool
	Frequency int
}

// Settings defines editable user preferences.
type Settings struct {
	SpokenAlerts  bool
	LaunchAtLogin bool
	Reminders     map[model.ReminderKey]ReminderSettings
}

// DefaultSettings returns default settings for DeskWell.
func DefaultSettings() Settings {
	settings := Settings{
		SpokenAlerts:  false,
		LaunchAtLogin: false,
		Reminders:     make(map[model.ReminderKey]ReminderSettings),
	}
	for _, definition := range model.DefaultReminders() {
		settings.Reminders[definition.Key] = ReminderSettings{
			Enabled:   definition.DefaultEnabled,
			Frequency: definition.DefaultFrequency,
		}
	}
	return settings
}

// Clone returns a deep copy.
func (settings Settings) Clone() Settings {
	clone := settings
	clone.Reminders = make(map[model.ReminderKey]ReminderSettings, len(settings.Reminders))
	for key, value := range settings.Reminders {
		clone.Reminders[key] = value
	}
	return clone
}

// Definitions converts settings to reminder definitions used at start-up.
// Frequencies outside a reminder's allowed set keep the built-in default.
func (settings Settings) Definitions() []model.ReminderDefinition {
	definitions := model.DefaultReminders()
	for i := range definitions {
		override, ok := settings.Reminders[definitions[i].Key]
		if !ok {
			continue
		}
		definitions[i].DefaultEnabled = override.Enabled
		if definitions[i].Allows(override.Frequency) {
			definitions[i].DefaultFrequency = override.Frequency
		}
	}
	return definitions
}
