package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskwell/internal/core/model"
)

var start = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newState(t *testing.T) State {
	t.Helper()
	state := New(model.DefaultReminders(), start)
	require.Len(t, state.Reminders, 4)
	return state
}

func mustFind(t *testing.T, state State, key model.ReminderKey) Reminder {
	t.Helper()
	reminder, ok := state.Find(key)
	require.True(t, ok, "reminder %s not found", key)
	return reminder
}

func TestNewUsesDefaults(t *testing.T) {
	state := newState(t)

	eye := mustFind(t, state, model.ReminderEye)
	assert.True(t, eye.Enabled)
	assert.Equal(t, 20, eye.Frequency)
	assert.Equal(t, start, eye.LastTriggered)
	assert.Zero(t, eye.Progress)

	snack := mustFind(t, state, model.ReminderSnack)
	assert.False(t, snack.Enabled)
	assert.Equal(t, 120, snack.Frequency)

	keys := make([]model.ReminderKey, 0, len(state.Reminders))
	for _, reminder := range state.Reminders {
		keys = append(keys, reminder.Key)
	}
	assert.Equal(t, []model.ReminderKey{model.ReminderEye, model.ReminderMicro, model.ReminderHydration, model.ReminderSnack}, keys)
}

func TestTickEyeScenario(t *testing.T) {
	state := newState(t)

	state, alerts := Tick(state, start.Add(19*time.Minute))
	assert.Empty(t, alerts)
	assert.InDelta(t, 95.0, mustFind(t, state, model.ReminderEye).Progress, 0.001)

	fireAt := start.Add(20*time.Minute + time.Second)
	state, alerts = Tick(state, fireAt)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.ReminderEye, alerts[0].Key)
	assert.Equal(t, "Time for an eye break! 👀", alerts[0].Title)
	assert.Equal(t, fireAt, alerts[0].At)

	eye := mustFind(t, state, model.ReminderEye)
	assert.Zero(t, eye.Progress)
	assert.Equal(t, fireAt, eye.LastTriggered)
}

func TestTickFiresOncePerCrossing(t *testing.T) {
	state := newState(t)
	state = SetEnabled(state, model.ReminderMicro, false, start)
	state = SetEnabled(state, model.ReminderHydration, false, start)

	// Several periods pass unobserved, e.g. after a suspend.
	late := start.Add(3*time.Hour + 7*time.Minute)
	state, alerts := Tick(state, late)
	require.Len(t, alerts, 1)

	fired := 0
	for second := 1; second <= 60; second++ {
		var tickAlerts []Alert
		state, tickAlerts = Tick(state, late.Add(time.Duration(second)*time.Second))
		fired += len(tickAlerts)
	}
	assert.Zero(t, fired)
	assert.Equal(t, late, mustFind(t, state, model.ReminderEye).LastTriggered)
}

func TestTickProgressMonotonicAndClamped(t *testing.T) {
	state := newState(t)
	previous := 0.0
	for second := 0; second < 20*60; second += 7 {
		var alerts []Alert
		state, alerts = Tick(state, start.Add(time.Duration(second)*time.Second))
		require.Empty(t, alerts)

		progress := mustFind(t, state, model.ReminderEye).Progress
		assert.GreaterOrEqual(t, progress, previous)
		assert.GreaterOrEqual(t, progress, 0.0)
		assert.LessOrEqual(t, progress, 100.0)
		previous = progress
	}
}

func TestTickClockBeforeLastTriggered(t *testing.T) {
	state := newState(t)
	state, alerts := Tick(state, start.Add(-time.Minute))
	assert.Empty(t, alerts)
	assert.Zero(t, mustFind(t, state, model.ReminderEye).Progress)
}

func TestTickDisabledForcesZero(t *testing.T) {
	state := newState(t)
	state, _ = Tick(state, start.Add(10*time.Minute))
	require.Greater(t, mustFind(t, state, model.ReminderEye).Progress, 0.0)

	state = SetEnabled(state, model.ReminderEye, false, start.Add(10*time.Minute))
	for _, offset := range []time.Duration{11 * time.Minute, time.Hour, 48 * time.Hour} {
		var alerts []Alert
		state, alerts = Tick(state, start.Add(offset))
		for _, alert := range alerts {
			assert.NotEqual(t, model.ReminderEye, alert.Key)
		}
		assert.Zero(t, mustFind(t, state, model.ReminderEye).Progress)
	}
}

func TestSetEnabledRestarts(t *testing.T) {
	state := newState(t)
	state, _ = Tick(state, start.Add(5*time.Minute))

	toggledAt := start.Add(6 * time.Minute)
	state = SetEnabled(state, model.ReminderSnack, true, toggledAt)
	snack := mustFind(t, state, model.ReminderSnack)
	assert.True(t, snack.Enabled)
	assert.Equal(t, toggledAt, snack.LastTriggered)
	assert.Zero(t, snack.Progress)
}

func TestSetEnabledUnknownKeyIgnored(t *testing.T) {
	state := newState(t)
	next := SetEnabled(state, "posture", true, start.Add(time.Minute))
	assert.Equal(t, state, next)
}

func TestSetFrequency(t *testing.T) {
	state := newState(t)
	changedAt := start.Add(3 * time.Minute)

	next, err := SetFrequency(state, model.ReminderEye, 30, changedAt)
	require.NoError(t, err)
	eye := mustFind(t, next, model.ReminderEye)
	assert.Equal(t, 30, eye.Frequency)
	assert.Equal(t, changedAt, eye.LastTriggered)

	unchanged, err := SetFrequency(next, model.ReminderEye, 17, changedAt.Add(time.Minute))
	require.ErrorIs(t, err, ErrFrequencyNotAllowed)
	assert.Equal(t, next, unchanged)

	ignored, err := SetFrequency(next, "posture", 30, changedAt)
	require.NoError(t, err)
	assert.Equal(t, next, ignored)
}

func TestResetAll(t *testing.T) {
	state := newState(t)
	state, _ = Tick(state, start.Add(14*time.Minute))
	state = SetEnabled(state, model.ReminderMicro, false, start.Add(14*time.Minute))

	resetAt := start.Add(15 * time.Minute)
	state = ResetAll(state, resetAt)
	for _, reminder := range state.Reminders {
		assert.Zero(t, reminder.Progress, reminder.Key)
		assert.Equal(t, resetAt, reminder.LastTriggered, reminder.Key)
	}
	assert.False(t, mustFind(t, state, model.ReminderMicro).Enabled)
}

func TestTriggerGuards(t *testing.T) {
	state := newState(t)

	_, _, ok := Trigger(state, "posture", start)
	assert.False(t, ok)

	state = SetEnabled(state, model.ReminderEye, false, start)
	next, _, ok := Trigger(state, model.ReminderEye, start.Add(time.Hour))
	assert.False(t, ok)
	assert.Equal(t, state, next)

	firedAt := start.Add(2 * time.Minute)
	next, alert, ok := Trigger(state, model.ReminderHydration, firedAt)
	require.True(t, ok)
	assert.Equal(t, "Stay hydrated! 💧", alert.Title)
	assert.Equal(t, "Time to drink some water.", alert.Description)
	assert.Equal(t, firedAt, mustFind(t, next, model.ReminderHydration).LastTriggered)
	assert.Equal(t, start, mustFind(t, state, model.ReminderHydration).LastTriggered, "input state must not change")
}

func TestNextDue(t *testing.T) {
	state := newState(t)
	next, ok := state.NextDue(start.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, model.ReminderEye, next.Key)
	assert.Equal(t, 19*time.Minute, next.Remaining(start.Add(time.Minute)))

	for _, reminder := range state.Reminders {
		state = SetEnabled(state, reminder.Key, false, start)
	}
	_, ok = state.NextDue(start)
	assert.False(t, ok)
}
