package scheduler

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskwell/internal/core/model"
	"deskwell/internal/core/pomodoro"
	"deskwell/internal/core/reminder"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(delta time.Duration) time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(delta)
	return clock.now
}

type recordingNotifier struct {
	mu        sync.Mutex
	reminders []reminder.Alert
	pomodoros []pomodoro.Notification
	messages  []string
}

func (notifier *recordingNotifier) NotifyReminder(alert reminder.Alert) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.reminders = append(notifier.reminders, alert)
}

func (notifier *recordingNotifier) NotifyPomodoro(notification pomodoro.Notification) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.pomodoros = append(notifier.pomodoros, notification)
}

func (notifier *recordingNotifier) Notify(title, _ string) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.messages = append(notifier.messages, title)
}

type staticQuote struct{}

func (staticQuote) Pick() string { return "Keep going." }

func newTestScheduler(t *testing.T) (*Scheduler, *fakeClock, *recordingNotifier) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}
	scheduler := New(model.DefaultReminders(), model.DefaultPomodoroConfig(), staticQuote{}, notifier, nil, Config{Clock: clock.Now})
	return scheduler, clock, notifier
}

func findReminder(t *testing.T, snapshot Snapshot, key model.ReminderKey) reminder.Reminder {
	t.Helper()
	for _, item := range snapshot.Reminders {
		if item.Key == key {
			return item
		}
	}
	t.Fatalf("reminder %s not in snapshot", key)
	return reminder.Reminder{}
}

func TestStepFiresAndResets(t *testing.T) {
	scheduler, clock, notifier := newTestScheduler(t)

	scheduler.Step(clock.Advance(19 * time.Minute))
	assert.InDelta(t, 95.0, findReminder(t, scheduler.Snapshot(), model.ReminderEye).Progress, 0.001)
	assert.Empty(t, notifier.reminders)

	firedAt := clock.Advance(time.Minute + time.Second)
	scheduler.Step(firedAt)
	require.Len(t, notifier.reminders, 1)
	assert.Equal(t, model.ReminderEye, notifier.reminders[0].Key)

	eye := findReminder(t, scheduler.Snapshot(), model.ReminderEye)
	assert.Zero(t, eye.Progress)
	assert.Equal(t, firedAt, eye.LastTriggered)

	for i := 0; i < 30; i++ {
		scheduler.Step(clock.Advance(time.Second))
	}
	assert.Len(t, notifier.reminders, 1)
}

func TestSetEnabledFalseSuppressesFiring(t *testing.T) {
	scheduler, clock, notifier := newTestScheduler(t)
	scheduler.SetEnabled(model.ReminderEye, false)

	scheduler.Step(clock.Advance(25 * time.Minute))
	for _, alert := range notifier.reminders {
		assert.NotEqual(t, model.ReminderEye, alert.Key)
	}
	assert.Zero(t, findReminder(t, scheduler.Snapshot(), model.ReminderEye).Progress)

	assert.False(t, scheduler.Trigger(model.ReminderEye))
	assert.False(t, scheduler.Trigger("posture"))
}

func TestSetFrequencyRejectsUnknownValue(t *testing.T) {
	scheduler, clock, _ := newTestScheduler(t)
	clock.Advance(5 * time.Minute)

	require.ErrorIs(t, scheduler.SetFrequency(model.ReminderHydration, 10), reminder.ErrFrequencyNotAllowed)
	require.NoError(t, scheduler.SetFrequency(model.ReminderHydration, 90))

	hydration := findReminder(t, scheduler.Snapshot(), model.ReminderHydration)
	assert.Equal(t, 90, hydration.Frequency)
	assert.Equal(t, clock.Now(), hydration.LastTriggered)
}

func TestResetAllNotifies(t *testing.T) {
	scheduler, clock, notifier := newTestScheduler(t)
	scheduler.Step(clock.Advance(10 * time.Minute))

	resetAt := clock.Advance(time.Second)
	scheduler.ResetAll()
	for _, item := range scheduler.Snapshot().Reminders {
		assert.Zero(t, item.Progress)
		assert.Equal(t, resetAt, item.LastTriggered)
	}
	assert.Equal(t, []string{"Reminders reset"}, notifier.messages)
}

func TestManualTrigger(t *testing.T) {
	scheduler, clock, notifier := newTestScheduler(t)
	firedAt := clock.Advance(3 * time.Minute)

	require.True(t, scheduler.Trigger(model.ReminderMicro))
	require.Len(t, notifier.reminders, 1)
	assert.Equal(t, firedAt, findReminder(t, scheduler.Snapshot(), model.ReminderMicro).LastTriggered)
}

func TestPomodoroOnSameTick(t *testing.T) {
	scheduler, clock, notifier := newTestScheduler(t)

	scheduler.Step(clock.Advance(time.Second))
	assert.Equal(t, pomodoro.PhaseIdle, scheduler.Snapshot().Pomodoro.Phase)

	scheduler.StartPomodoro()
	scheduler.StartPomodoro()
	require.Len(t, notifier.pomodoros, 1)
	assert.Equal(t, 1500, scheduler.Snapshot().Pomodoro.Remaining)

	for i := 0; i < 1500; i++ {
		scheduler.Step(clock.Advance(time.Second))
	}
	snapshot := scheduler.Snapshot()
	assert.Equal(t, pomodoro.PhaseBreak, snapshot.Pomodoro.Phase)
	assert.Equal(t, 300, snapshot.Pomodoro.Remaining)
	require.Len(t, notifier.pomodoros, 2)
	assert.Equal(t, "Keep going.", notifier.pomodoros[1].Description)

	scheduler.StopPomodoro()
	snapshot = scheduler.Snapshot()
	assert.Equal(t, pomodoro.PhaseIdle, snapshot.Pomodoro.Phase)
	assert.Equal(t, 1500, snapshot.Pomodoro.Remaining)
	assert.Len(t, notifier.pomodoros, 2)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	scheduler, clock, _ := newTestScheduler(t)
	events := scheduler.Subscribe(16)

	scheduler.Step(clock.Advance(21 * time.Minute))

	var types []EventType
	for len(events) > 0 {
		event := <-events
		assert.NotEmpty(t, event.ID)
		types = append(types, event.Type)
		if event.Type == EventReminderFired {
			require.NotNil(t, event.Alert)
			assert.Equal(t, model.ReminderEye, event.Alert.Key)
			assert.Zero(t, findReminder(t, event.Snapshot, model.ReminderEye).Progress)
		}
	}
	assert.Equal(t, []EventType{EventReminderFired, EventTick}, types)
}

func TestStartStopClosesObservers(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	scheduler := New(model.DefaultReminders(), model.DefaultPomodoroConfig(), staticQuote{}, nil, nil, Config{
		TickInterval: 5 * time.Millisecond,
		Clock:        clock.Now,
	})
	events := scheduler.Subscribe(1)

	scheduler.Start()
	scheduler.Start()

	select {
	case event := <-events:
		assert.Equal(t, EventTick, event.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no tick received")
	}

	scheduler.Stop()
	scheduler.Stop()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

type blockingNotifier struct {
	recordingNotifier
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (notifier *blockingNotifier) NotifyReminder(alert reminder.Alert) {
	notifier.once.Do(func() { close(notifier.entered) })
	<-notifier.release
	notifier.recordingNotifier.NotifyReminder(alert)
}

func TestStopWaitsForInFlightTick(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	notifier := &blockingNotifier{entered: make(chan struct{}), release: make(chan struct{})}
	scheduler := New(model.DefaultReminders(), model.DefaultPomodoroConfig(), staticQuote{}, notifier, nil, Config{
		TickInterval: 5 * time.Millisecond,
		Clock:        clock.Now,
	})
	clock.Advance(21 * time.Minute)

	scheduler.Start()
	select {
	case <-notifier.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("tick never reached the notifier")
	}

	stopped := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a tick was still notifying")
	case <-time.After(50 * time.Millisecond):
	}

	close(notifier.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestDispatchLogsEventID(t *testing.T) {
	var logs bytes.Buffer
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	scheduler := New(model.DefaultReminders(), model.DefaultPomodoroConfig(), staticQuote{}, &recordingNotifier{}, logger, Config{Clock: clock.Now})
	events := scheduler.Subscribe(16)

	scheduler.Step(clock.Advance(21 * time.Minute))

	var fired Event
	for len(events) > 0 {
		if event := <-events; event.Type == EventReminderFired {
			fired = event
		}
	}
	require.NotEmpty(t, fired.ID)
	assert.Contains(t, logs.String(), "event_id="+fired.ID)
}
