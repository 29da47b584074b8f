package reminder

import (
	"errors"
	"time"

	"deskwell/internal/core/model"
)

// ErrFrequencyNotAllowed indicates a frequency outside the reminder's allowed set.
var ErrFrequencyNotAllowed = errors.New("frequency not allowed for reminder")

// Reminder is a reminder definition together with its live countdown state.
type Reminder struct {
	model.ReminderDefinition

	Enabled       bool
	Frequency     int
	Progress      float64
	LastTriggered time.Time
}

// Period returns the configured frequency as a duration.
func (reminder Reminder) Period() time.Duration {
	return time.Duration(reminder.Frequency) * time.Minute
}

// Remaining returns the time left until the reminder fires.
func (reminder Reminder) Remaining(now time.Time) time.Duration {
	if !reminder.Enabled {
		return 0
	}
	remaining := reminder.Period() - now.Sub(reminder.LastTriggered)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Alert is produced when a reminder fires and carries everything the
// notification sink needs.
type Alert struct {
	Key          model.ReminderKey
	Title        string
	Description  string
	SpokenPhrase string
	At           time.Time
}

// State is the ordered reminder registry. Values are treated as immutable by
// the reducers: every reducer returns a fresh State.
type State struct {
	Reminders []Reminder
}

// New builds the initial registry with every reminder starting at now.
func New(definitions []model.ReminderDefinition, now time.Time) State {
	reminders := make([]Reminder, 0, len(definitions))
	for _, definition := range definitions {
		frequency := definition.DefaultFrequency
		if !definition.Allows(frequency) && len(definition.Frequencies) > 0 {
			frequency = definition.Frequencies[0]
		}
		reminders = append(reminders, Reminder{
			ReminderDefinition: definition,
			Enabled:            definition.DefaultEnabled,
			Frequency:          frequency,
			LastTriggered:      now,
		})
	}
	return State{Reminders: reminders}
}

// Find returns the reminder with the given key.
func (state State) Find(key model.ReminderKey) (Reminder, bool) {
	index := state.indexOf(key)
	if index < 0 {
		return Reminder{}, false
	}
	return state.Reminders[index], true
}

// Clone returns a deep copy of the state.
func (state State) Clone() State {
	reminders := make([]Reminder, len(state.Reminders))
	copy(reminders, state.Reminders)
	return State{Reminders: reminders}
}

// NextDue returns the enabled reminder that fires soonest.
func (state State) NextDue(now time.Time) (Reminder, bool) {
	var (
		next  Reminder
		found bool
	)
	for _, reminder := range state.Reminders {
		if !reminder.Enabled {
			continue
		}
		if !found || reminder.Remaining(now) < next.Remaining(now) {
			next = reminder
			found = true
		}
	}
	return next, found
}

func (state State) indexOf(key model.ReminderKey) int {
	for index, reminder := range state.Reminders {
		if reminder.Key == key {
			return index
		}
	}
	return -1
}

func progressFor(elapsed, period time.Duration) float64 {
	if period <= 0 || elapsed <= 0 {
		return 0
	}
	progress := float64(elapsed) / float64(period) * 100
	if progress > 100 {
		return 100
	}
	return progress
}
