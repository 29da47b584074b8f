package scheduler

import (
	"time"

	"deskwell/internal/core/pomodoro"
	"deskwell/internal/core/reminder"
)

// EventType defines the type of scheduler event.
type EventType string

const (
	EventTick             EventType = "tick"
	EventReminderFired    EventType = "reminder_fired"
	EventRemindersChanged EventType = "reminders_changed"
	EventRemindersReset   EventType = "reminders_reset"
	EventPomodoroChanged  EventType = "pomodoro_changed"
)

// Snapshot is a copy of the live state, safe to read from any goroutine.
type Snapshot struct {
	Reminders []reminder.Reminder
	Pomodoro  pomodoro.Timer
	At        time.Time
}

// Event represents a scheduler update for observers.
type Event struct {
	ID       string
	Type     EventType
	Snapshot Snapshot
	Alert    *reminder.Alert
	Pomodoro *pomodoro.Notification
	At       time.Time
}
