package main

import (
	"errors"
	"log/slog"
	"os"

	"deskwell/internal/actions"
	"deskwell/internal/ai"
	"deskwell/internal/audio"
	"deskwell/internal/config"
	"deskwell/internal/core/content"
	"deskwell/internal/core/model"
	"deskwell/internal/core/posture"
	"deskwell/internal/core/scheduler"
	"deskwell/internal/notify"
	"deskwell/internal/platform"
	"deskwell/internal/storage"
	"deskwell/internal/ui/dashboard"
	"deskwell/internal/ui/preferences"
	"deskwell/internal/ui/tray"
	"deskwell/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appName = "DeskWell"

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if activateErr := platform.ActivateRunningInstance(appName); activateErr != nil {
				logger.Warn("could not reach running instance", "error", activateErr)
			}
		}
		logger.Error("single instance", "error", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Error("load settings", "error", err)
		return
	}

	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; posture analysis and spoken alerts will fail")
	}

	fyneApp := app.NewWithID("app.deskwell")
	fyneApp.SetIcon(resources.MustLogo(resources.LogoActive))

	client := ai.NewClient(cfg.AI())
	remote := actions.New(client, client, logger, actions.Config{})
	player := audio.New(resources.NotificationSound(), logger)
	sink := notify.New(notify.AppToaster{App: fyneApp}, remote, player, logger, notify.Config{
		SpokenAlerts: settings.SpokenAlerts,
	})

	quotes := content.NewQuotePicker(nil, content.MotivationalQuotes())
	engine := scheduler.New(settings.Definitions(), model.DefaultPomodoroConfig(), quotes, sink, logger, scheduler.Config{})
	session := posture.NewSession(remote, logger)
	board := dashboard.New(fyneApp, engine, session, logger)

	platformService := platform.NewService()
	syncAutostart := func(enabled bool) {
		if err := platform.SyncAutostart(platformService, appName, enabled); err != nil {
			logger.Warn("autostart", "error", err)
		}
	}
	syncAutostart(settings.LaunchAtLogin)

	saveSettings := func(updated preferences.Settings) {
		settings = updated
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Error("save settings", "error", err)
		}
	}

	var trayManager *tray.Manager
	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		previous := settings
		saveSettings(updated)
		sink.SetSpokenAlerts(updated.SpokenAlerts)
		if trayManager != nil {
			trayManager.SetSpokenAlerts(updated.SpokenAlerts)
		}
		syncAutostart(updated.LaunchAtLogin)
		applyReminderChanges(engine, previous, updated, logger)
	})

	desktopApp, ok := fyneApp.(desktop.App)
	if ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnOpenDashboard:  board.Show,
			OnPreferences:    prefsWindow.Show,
			OnStartPomodoro:  engine.StartPomodoro,
			OnStopPomodoro:   engine.StopPomodoro,
			OnResetPomodoro:  engine.ResetPomodoro,
			OnResetReminders: engine.ResetAll,
			OnSpokenAlerts: func(enabled bool) {
				sink.SetSpokenAlerts(enabled)
				updated := settings.Clone()
				updated.SpokenAlerts = enabled
				prefsWindow.UpdateSettings(updated)
				saveSettings(updated)
			},
			OnQuit: fyneApp.Quit,
		}, settings.SpokenAlerts)
		desktopApp.SetSystemTrayIcon(resources.MustLogo(resources.LogoActive))
	} else {
		logger.Warn("system tray unsupported on this platform")
	}

	guard.OnActivate(func() {
		fyne.Do(board.Show)
	})

	events := engine.Subscribe(16)
	go func() {
		muted := false
		for event := range events {
			if event.Type != scheduler.EventTick {
				logger.Debug("scheduler event", "type", event.Type, "event_id", event.ID)
			}
			snapshot := event.Snapshot
			fyne.Do(func() {
				board.Update(snapshot)
				if trayManager == nil {
					return
				}
				trayManager.Update(snapshot)
				if allOff := !anyEnabled(snapshot); allOff != muted {
					muted = allOff
					icon := resources.LogoActive
					if muted {
						icon = resources.LogoMuted
					}
					desktopApp.SetSystemTrayIcon(resources.MustLogo(icon))
				}
			})
		}
	}()

	initial := engine.Snapshot()
	board.Update(initial)
	if trayManager != nil {
		trayManager.Update(initial)
	}

	engine.Start()
	board.Show()
	fyneApp.Run()

	engine.Stop()
	sink.Close()
}

// applyReminderChanges pushes edited start-up values into the running
// registry. Only reminders whose values changed are reset.
func applyReminderChanges(engine *scheduler.Scheduler, previous, updated preferences.Settings, logger *slog.Logger) {
	for _, definition := range model.DefaultReminders() {
		before := previous.Reminders[definition.Key]
		after := updated.Reminders[definition.Key]
		if before.Frequency != after.Frequency {
			if err := engine.SetFrequency(definition.Key, after.Frequency); err != nil {
				logger.Warn("apply frequency", "reminder", definition.Key, "error", err)
			}
		}
		if before.Enabled != after.Enabled {
			engine.SetEnabled(definition.Key, after.Enabled)
		}
	}
}

func anyEnabled(snapshot scheduler.Snapshot) bool {
	for _, reminder := range snapshot.Reminders {
		if reminder.Enabled {
			return true
		}
	}
	return false
}
