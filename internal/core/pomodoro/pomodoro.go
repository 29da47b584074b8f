package pomodoro

import (
	"fmt"

	"deskwell/internal/core/model"
)

// Phase represents the pomodoro mode.
type Phase string

const (
	PhaseIdle  Phase = "idle"
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// QuotePicker supplies the motivational phrase attached to phase changes.
type QuotePicker interface {
	Pick() string
}

// Notification is raised on start and on every phase flip.
type Notification struct {
	Phase       Phase
	Title       string
	Description string
}

// Timer is the work/break countdown. The zero value is not usable; build it with New.
type Timer struct {
	Phase        Phase
	Remaining    int
	WorkSeconds  int
	BreakSeconds int
}

// New returns an idle timer with the work duration preloaded.
func New(config model.PomodoroConfig) Timer {
	workSeconds := int(config.WorkDuration.Seconds())
	breakSeconds := int(config.BreakDuration.Seconds())
	return Timer{
		Phase:        PhaseIdle,
		Remaining:    workSeconds,
		WorkSeconds:  workSeconds,
		BreakSeconds: breakSeconds,
	}
}

// Running reports whether the countdown advances on ticks.
func (timer Timer) Running() bool {
	return timer.Phase == PhaseWork || timer.Phase == PhaseBreak
}

// PhaseDuration returns the full length of the current phase in seconds.
// Idle reports the work duration since that is what start will load.
func (timer Timer) PhaseDuration() int {
	if timer.Phase == PhaseBreak {
		return timer.BreakSeconds
	}
	return timer.WorkSeconds
}

// Progress returns the elapsed share of the current phase in [0,100].
func (timer Timer) Progress() float64 {
	total := timer.PhaseDuration()
	if total <= 0 {
		return 0
	}
	progress := float64(total-timer.Remaining) / float64(total) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// Clock renders the remaining time as MM:SS.
func (timer Timer) Clock() string {
	remaining := timer.Remaining
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}

// Start moves an idle timer into a full work phase.
func (timer Timer) Start() (Timer, Notification, bool) {
	if timer.Running() {
		return timer, Notification{}, false
	}
	timer.Phase = PhaseWork
	timer.Remaining = timer.WorkSeconds
	return timer, Notification{
		Phase:       PhaseWork,
		Title:       "Time to focus! 🎯",
		Description: fmt.Sprintf("Focus session started: %d minutes of deep work.", timer.WorkSeconds/60),
	}, true
}

// Stop returns to idle with the work duration preloaded.
func (timer Timer) Stop() Timer {
	timer.Phase = PhaseIdle
	timer.Remaining = timer.WorkSeconds
	return timer
}

// Reset behaves like Stop; both are offered to the UI.
func (timer Timer) Reset() Timer {
	return timer.Stop()
}

// Tick decrements a running timer by one second and flips the phase when
// the counter reaches zero in the same tick.
func (timer Timer) Tick(quotes QuotePicker) (Timer, Notification, bool) {
	if !timer.Running() {
		return timer, Notification{}, false
	}
	if timer.Remaining > 0 {
		timer.Remaining--
	}
	if timer.Remaining > 0 {
		return timer, Notification{}, false
	}

	phrase := ""
	if quotes != nil {
		phrase = quotes.Pick()
	}
	if timer.Phase == PhaseWork {
		timer.Phase = PhaseBreak
		timer.Remaining = timer.BreakSeconds
		return timer, Notification{Phase: PhaseBreak, Title: "Break time! ☕", Description: phrase}, true
	}
	timer.Phase = PhaseWork
	timer.Remaining = timer.WorkSeconds
	return timer, Notification{Phase: PhaseWork, Title: "Time to focus! 🎯", Description: phrase}, true
}
