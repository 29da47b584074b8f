package reminder

import (
	"fmt"
	"time"

	"deskwell/internal/core/model"
)

// SetEnabled toggles a reminder and restarts its countdown. Unknown keys are ignored.
func SetEnabled(state State, key model.ReminderKey, enabled bool, now time.Time) State {
	next := state.Clone()
	index := next.indexOf(key)
	if index < 0 {
		return next
	}
	next.Reminders[index].Enabled = enabled
	restart(&next.Reminders[index], now)
	return next
}

// SetFrequency changes the reminder period and restarts its countdown.
// Unknown keys are ignored; frequencies outside the allowed set are rejected.
func SetFrequency(state State, key model.ReminderKey, minutes int, now time.Time) (State, error) {
	next := state.Clone()
	index := next.indexOf(key)
	if index < 0 {
		return next, nil
	}
	if !next.Reminders[index].Allows(minutes) {
		return state, fmt.Errorf("set %s frequency to %d minutes: %w", key, minutes, ErrFrequencyNotAllowed)
	}
	next.Reminders[index].Frequency = minutes
	restart(&next.Reminders[index], now)
	return next, nil
}

// ResetAll restarts every countdown, enabled or not.
func ResetAll(state State, now time.Time) State {
	next := state.Clone()
	for index := range next.Reminders {
		restart(&next.Reminders[index], now)
	}
	return next
}

// Trigger fires a single reminder. It returns ok=false and leaves the state
// untouched when the key is unknown or the reminder is disabled.
func Trigger(state State, key model.ReminderKey, now time.Time) (State, Alert, bool) {
	next := state.Clone()
	alert, ok := trigger(next.Reminders, key, now)
	if !ok {
		return state, Alert{}, false
	}
	return next, alert, true
}

// Tick advances every reminder to now and returns the alerts that fired.
//
// A reminder whose elapsed time reached its period is handed to Trigger
// before the tick commits its own progress value, so the committed progress
// of a firing reminder is the post-reset 0 rather than 100. Trigger reads
// the state being built by this tick, which is the latest committed state.
func Tick(state State, now time.Time) (State, []Alert) {
	next := state.Clone()
	var alerts []Alert
	for index := range next.Reminders {
		current := next.Reminders[index]
		if !current.Enabled {
			next.Reminders[index].Progress = 0
			continue
		}

		elapsed := now.Sub(current.LastTriggered)
		period := current.Period()
		if period > 0 && elapsed >= period {
			if alert, ok := trigger(next.Reminders, current.Key, now); ok {
				alerts = append(alerts, alert)
			}
			continue
		}
		next.Reminders[index].Progress = progressFor(elapsed, period)
	}
	return next, alerts
}

func trigger(reminders []Reminder, key model.ReminderKey, now time.Time) (Alert, bool) {
	for index := range reminders {
		if reminders[index].Key != key {
			continue
		}
		if !reminders[index].Enabled {
			return Alert{}, false
		}
		restart(&reminders[index], now)
		return Alert{
			Key:          key,
			Title:        reminders[index].ToastTitle,
			Description:  reminders[index].ToastDescription,
			SpokenPhrase: reminders[index].SpokenPhrase,
			At:           now,
		}, true
	}
	return Alert{}, false
}

func restart(reminder *Reminder, now time.Time) {
	reminder.LastTriggered = now
	reminder.Progress = 0
}
