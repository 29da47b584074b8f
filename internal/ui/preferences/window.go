package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"deskwell/internal/core/model"
)

type reminderRow struct {
	definition model.ReminderDefinition
	enabled    *widget.Check
	frequency  *widget.Select
}

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	rows          []reminderRow
	spokenAlerts  *widget.Check
	launchAtLogin *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("DeskWell Settings")

	prefs := &Window{
		window:        window,
		settings:      settings.Clone(),
		onSave:        onSave,
		spokenAlerts:  widget.NewCheck("Spoken alerts", nil),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.spokenAlerts,
		prefs.launchAtLogin,
		widget.NewLabelWithStyle("Reminders at start-up", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, definition := range model.DefaultReminders() {
		row := reminderRow{
			definition: definition,
			enabled:    widget.NewCheck(definition.Title, nil),
			frequency:  widget.NewSelect(FrequencyOptions(definition), nil),
		}
		prefs.rows = append(prefs.rows, row)
		form.Add(container.NewHBox(row.enabled, layout.NewSpacer(), row.frequency))
	}

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 360))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings.Clone()
	prefs.spokenAlerts.SetChecked(settings.SpokenAlerts)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
	for _, row := range prefs.rows {
		current, ok := settings.Reminders[row.definition.Key]
		if !ok {
			current = ReminderSettings{Enabled: row.definition.DefaultEnabled, Frequency: row.definition.DefaultFrequency}
		}
		row.enabled.SetChecked(current.Enabled)
		row.frequency.SetSelected(FrequencyLabel(current.Frequency))
	}
}

func (prefs *Window) handleSave() {
	settings := prefs.settings.Clone()
	settings.SpokenAlerts = prefs.spokenAlerts.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked

	for _, row := range prefs.rows {
		current := settings.Reminders[row.definition.Key]
		current.Enabled = row.enabled.Checked
		if minutes, ok := ParseFrequencyLabel(row.frequency.Selected); ok && row.definition.Allows(minutes) {
			current.Frequency = minutes
		}
		settings.Reminders[row.definition.Key] = current
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings.Clone())
	}
	prefs.window.Hide()
}

// FrequencyOptions lists the select labels for a reminder.
func FrequencyOptions(definition model.ReminderDefinition) []string {
	options := make([]string, 0, len(definition.Frequencies))
	for _, minutes := range definition.Frequencies {
		options = append(options, FrequencyLabel(minutes))
	}
	return options
}

// FrequencyLabel renders minutes as a select option.
func FrequencyLabel(minutes int) string {
	return fmt.Sprintf("Every %d minutes", minutes)
}

// ParseFrequencyLabel is the inverse of FrequencyLabel.
func ParseFrequencyLabel(label string) (int, bool) {
	value := strings.TrimSuffix(strings.TrimPrefix(label, "Every "), " minutes")
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
