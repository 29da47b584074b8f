package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"deskwell/internal/core/pomodoro"
	"deskwell/internal/core/reminder"
	"deskwell/internal/core/scheduler"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpenDashboard  func()
	OnPreferences    func()
	OnStartPomodoro  func()
	OnStopPomodoro   func()
	OnResetPomodoro  func()
	OnResetReminders func()
	OnSpokenAlerts   func(enabled bool)
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	app             desktop.App
	callbacks       Callbacks
	statusItem      *fyne.MenuItem
	pomodoroItem    *fyne.MenuItem
	startItem       *fyne.MenuItem
	stopItem        *fyne.MenuItem
	resetPomodoro   *fyne.MenuItem
	resetReminders  *fyne.MenuItem
	spokenItem      *fyne.MenuItem
	dashboardItem   *fyne.MenuItem
	preferencesItem *fyne.MenuItem
	quitItem        *fyne.MenuItem
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks, spokenAlerts bool) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true
	manager.pomodoroItem = fyne.NewMenuItem("Pomodoro: idle", nil)
	manager.pomodoroItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start pomodoro", call(callbacks.OnStartPomodoro))
	manager.stopItem = fyne.NewMenuItem("Stop pomodoro", call(callbacks.OnStopPomodoro))
	manager.stopItem.Disabled = true
	manager.resetPomodoro = fyne.NewMenuItem("Reset pomodoro", call(callbacks.OnResetPomodoro))
	manager.resetReminders = fyne.NewMenuItem("Reset all reminders", call(callbacks.OnResetReminders))

	manager.spokenItem = fyne.NewMenuItem("Spoken alerts", func() {
		enabled := !manager.spokenItem.Checked
		manager.SetSpokenAlerts(enabled)
		if manager.callbacks.OnSpokenAlerts != nil {
			manager.callbacks.OnSpokenAlerts(enabled)
		}
	})
	manager.spokenItem.Checked = spokenAlerts

	manager.dashboardItem = fyne.NewMenuItem("Open dashboard", call(callbacks.OnOpenDashboard))
	manager.preferencesItem = fyne.NewMenuItem("Preferences", call(callbacks.OnPreferences))
	manager.quitItem = fyne.NewMenuItem("Quit", call(callbacks.OnQuit))
	manager.quitItem.IsQuit = true

	manager.refreshMenu()
	return manager
}

// Update refreshes the status lines from a scheduler snapshot.
func (manager *Manager) Update(snapshot scheduler.Snapshot) {
	manager.statusItem.Label = "Status: " + StatusText(snapshot)
	manager.pomodoroItem.Label = "Pomodoro: " + PomodoroText(snapshot.Pomodoro)
	running := snapshot.Pomodoro.Running()
	manager.startItem.Disabled = running
	manager.stopItem.Disabled = !running
	manager.refreshMenu()
}

// SetSpokenAlerts updates the checkmark.
func (manager *Manager) SetSpokenAlerts(enabled bool) {
	manager.spokenItem.Checked = enabled
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("DeskWell",
		manager.statusItem,
		manager.pomodoroItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.stopItem,
		manager.resetPomodoro,
		fyne.NewMenuItemSeparator(),
		manager.resetReminders,
		manager.spokenItem,
		fyne.NewMenuItemSeparator(),
		manager.dashboardItem,
		manager.preferencesItem,
		manager.quitItem,
	))
}

// StatusText names the reminder due next.
func StatusText(snapshot scheduler.Snapshot) string {
	state := reminder.State{Reminders: snapshot.Reminders}
	next, ok := state.NextDue(snapshot.At)
	if !ok {
		return "all reminders off"
	}
	return fmt.Sprintf("%s in %s", next.Title, formatRemaining(next.Remaining(snapshot.At)))
}

// PomodoroText describes the pomodoro phase and countdown.
func PomodoroText(timer pomodoro.Timer) string {
	switch timer.Phase {
	case pomodoro.PhaseWork:
		return "focus " + timer.Clock()
	case pomodoro.PhaseBreak:
		return "break " + timer.Clock()
	default:
		return "idle"
	}
}

func formatRemaining(remaining time.Duration) string {
	if remaining < time.Minute {
		return "<1m"
	}
	return fmt.Sprintf("%dm", int(remaining.Minutes()))
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
