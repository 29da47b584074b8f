package model

import "time"

// ReminderKey identifies a reminder across the application.
type ReminderKey string

const (
	ReminderEye       ReminderKey = "eye"
	ReminderMicro     ReminderKey = "micro"
	ReminderHydration ReminderKey = "hydration"
	ReminderSnack     ReminderKey = "snack"
)

// ReminderDefinition describes the static part of a reminder.
type ReminderDefinition struct {
	Key              ReminderKey
	Title            string
	Description      string
	ToastTitle       string
	ToastDescription string
	SpokenPhrase     string
	Frequencies      []int
	DefaultFrequency int
	DefaultEnabled   bool
}

// Allows reports whether minutes is one of the allowed frequencies.
func (definition ReminderDefinition) Allows(minutes int) bool {
	for _, allowed := range definition.Frequencies {
		if allowed == minutes {
			return true
		}
	}
	return false
}

// PomodoroConfig holds the fixed phase durations.
type PomodoroConfig struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
}

const (
	// TickInterval is the scheduler cadence.
	TickInterval = time.Second

	// PostureRequestDelay is applied before every posture analysis call.
	PostureRequestDelay = 1500 * time.Millisecond
)

// DefaultPomodoroConfig returns the 25/5 minute cycle.
func DefaultPomodoroConfig() PomodoroConfig {
	return PomodoroConfig{
		WorkDuration:  25 * time.Minute,
		BreakDuration: 5 * time.Minute,
	}
}

// DefaultReminders returns the built-in reminders in display order.
func DefaultReminders() []ReminderDefinition {
	return []ReminderDefinition{
		{
			Key:              ReminderEye,
			Title:            "Eye Break",
			Description:      "Follow the 20-20-20 rule to reduce eye strain.",
			ToastTitle:       "Time for an eye break! 👀",
			ToastDescription: "Look at something 20 feet away for 20 seconds.",
			SpokenPhrase:     "Time for an eye break. Look at something 20 feet away for 20 seconds.",
			Frequencies:      []int{15, 20, 25, 30},
			DefaultFrequency: 20,
			DefaultEnabled:   true,
		},
		{
			Key:              ReminderMicro,
			Title:            "Micro-Break",
			Description:      "Stand up, stretch, and move around for a minute.",
			ToastTitle:       "Move your body! 🏃",
			ToastDescription: "Take a short micro-break to stretch and recharge.",
			SpokenPhrase:     "Move your body. Take a short micro-break to stretch and recharge.",
			Frequencies:      []int{30, 45, 60},
			DefaultFrequency: 30,
			DefaultEnabled:   true,
		},
		{
			Key:              ReminderHydration,
			Title:            "Hydration",
			Description:      "Drink some water to stay hydrated and focused.",
			ToastTitle:       "Stay hydrated! 💧",
			ToastDescription: "Time to drink some water.",
			SpokenPhrase:     "Stay hydrated. Time to drink some water.",
			Frequencies:      []int{45, 60, 90},
			DefaultFrequency: 60,
			DefaultEnabled:   true,
		},
		{
			Key:              ReminderSnack,
			Title:            "Healthy Snack",
			Description:      "Keep your energy steady with a light, healthy snack.",
			ToastTitle:       "Snack time! 🍎",
			ToastDescription: "Grab a healthy snack to keep your energy up.",
			SpokenPhrase:     "Snack time. Grab a healthy snack to keep your energy up.",
			Frequencies:      []int{90, 120, 180},
			DefaultFrequency: 120,
			DefaultEnabled:   false,
		},
	}
}
